package domain

import "time"

// BaselineState is the coarse 14-day mood/volatility classification.
type BaselineState string

const (
	BaselineCalm        BaselineState = "calm"
	BaselineElevated    BaselineState = "elevated"
	BaselineFluctuating BaselineState = "fluctuating"
	BaselineHigh        BaselineState = "high"
)

// PatternSnapshot aggregates a user's signals over the trailing 14 days.
type PatternSnapshot struct {
	UserID          string        `json:"user_id"`
	AvgIntensity    float64       `json:"avg_intensity"`
	Volatility      float64       `json:"volatility"`
	DominantThemes  []Context     `json:"dominant_themes"`
	BaselineState   BaselineState `json:"baseline_state"`
	SignalCount     int           `json:"signal_count"`
	RecentWeekCount int           `json:"recent_week_count"`
	PriorWeekCount  int           `json:"prior_week_count"`
	ComputedAt      time.Time     `json:"computed_at"`
}

// UserPhase is an internal classification of the last 10 signals. It is never
// shown to the user verbatim; it only selects copy and tone.
type UserPhase string

const (
	PhaseSettling UserPhase = "settling"
	PhaseCircling UserPhase = "circling"
	PhaseCarrying UserPhase = "carrying"
	PhaseEasing   UserPhase = "easing"
)

// IntensityTrend describes the week-over-week direction of intensity.
type IntensityTrend string

const (
	TrendRising IntensityTrend = "rising"
	TrendSteady IntensityTrend = "steady"
	TrendEasing IntensityTrend = "easing"
)

// UserState is the narrative view of recent signals handed to the composer.
type UserState struct {
	TopEmotions       []string       `json:"top_emotions"`
	TopContexts       []Context      `json:"top_contexts"`
	IntensityTrend    IntensityTrend `json:"intensity_trend"`
	TimeBucketPattern TimeBucket     `json:"time_bucket_pattern"`
	RecurringThemes   []Context      `json:"recurring_themes"`
}

// InsightType identifies a pattern card.
type InsightType string

const (
	InsightEmotion InsightType = "emotion"
	InsightTime    InsightType = "time"
	InsightContext InsightType = "context"
	InsightWeekly  InsightType = "weekly"
)

// Insight is one gentle pattern card shown outside the chat flow.
type Insight struct {
	Type  InsightType `json:"type"`
	Title string      `json:"title"`
	Body  string      `json:"body"`
}
