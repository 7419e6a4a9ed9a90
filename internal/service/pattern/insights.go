package pattern

import (
	"time"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/pkg/logger"
	"github.com/mendapp/mend/internal/pkg/render"
)

const (
	// InsightScope is how many of the newest signals insights read.
	InsightScope = 100

	maxInsights          = 3
	insightRepeatMinimum = 3
	weeklyVolumeMinimum  = 5
	timelineLength       = 5
)

const (
	tplInsightEmotion = "insight.emotion"
	tplInsightTime    = "insight.time"
	tplInsightContext = "insight.context"
)

var insightTemplates = map[string]string{
	tplInsightEmotion: `You've often been describing {{ emotion }} feelings.`,
	tplInsightTime:    `That feeling tends to show up more during the {{ bucket }}.`,
	tplInsightContext: `A lot of your reflections seem connected to {{ context }}.`,
}

// Insights renders gentle pattern cards.
type Insights struct {
	tpl *render.Engine
}

// NewInsights compiles the insight copy.
func NewInsights(engine *render.Engine) *Insights {
	for key, src := range insightTemplates {
		engine.MustCompile(key, src)
	}
	return &Insights{tpl: engine}
}

type timeEmotion struct {
	bucket  domain.TimeBucket
	emotion domain.Emotion
}

// Compute returns at most three cards for sigs (newest first). Only the
// first InsightScope signals are read.
func (in *Insights) Compute(sigs []domain.Signal, now time.Time) []domain.Insight {
	if len(sigs) > InsightScope {
		sigs = sigs[:InsightScope]
	}
	cards := []domain.Insight{}
	if len(sigs) < 3 {
		return cards
	}

	emotions := newCounter[domain.Emotion]()
	pairs := newCounter[timeEmotion]()
	contexts := newCounter[domain.Context]()
	weekStart := now.Add(-WeekWindow)
	lastWeek := 0
	for _, s := range sigs {
		emotions.add(s.PrimaryEmotion)
		pairs.add(timeEmotion{bucket: s.TimeBucket, emotion: s.PrimaryEmotion})
		contexts.add(s.Context)
		if !s.CreatedAt.Before(weekStart) {
			lastWeek++
		}
	}

	if e, n, ok := emotions.max(); ok && n >= insightRepeatMinimum {
		cards = in.add(cards, domain.InsightEmotion, "Emotional patterns", tplInsightEmotion,
			map[string]interface{}{"emotion": SoftLabel(e)})
	}
	if p, n, ok := pairs.max(); ok && n >= insightRepeatMinimum {
		cards = in.add(cards, domain.InsightTime, "When feelings show up", tplInsightTime,
			map[string]interface{}{"bucket": string(p.bucket)})
	}
	if c, n, ok := contexts.max(); ok && n >= insightRepeatMinimum {
		cards = in.add(cards, domain.InsightContext, "Themes that repeat", tplInsightContext,
			map[string]interface{}{"context": ContextPhrase(c)})
	}
	if lastWeek >= weeklyVolumeMinimum {
		cards = append(cards, domain.Insight{
			Type:  domain.InsightWeekly,
			Title: "This week",
			Body:  "This week has had more emotional check-ins than usual.",
		})
	}

	if len(cards) > maxInsights {
		cards = cards[:maxInsights]
	}
	return cards
}

func (in *Insights) add(cards []domain.Insight, typ domain.InsightType, title, key string, vars map[string]interface{}) []domain.Insight {
	body, err := in.tpl.Render(key, vars)
	if err != nil {
		logger.Warn("insight render failed", "template", key, "error", err)
		return cards
	}
	return append(cards, domain.Insight{Type: typ, Title: title, Body: body})
}

// TimelineEntry is one point on the recent mood timeline.
type TimelineEntry struct {
	Date       time.Time `json:"date"`
	Emotion    string    `json:"emotion"`
	Weight     Weight    `json:"weight"`
	TimeBucket string    `json:"time_bucket"`
}

// Timeline returns the newest five signals as display entries.
func Timeline(sigs []domain.Signal) []TimelineEntry {
	out := []TimelineEntry{}
	for _, s := range sigs {
		if s.CreatedAt.IsZero() {
			continue
		}
		out = append(out, TimelineEntry{
			Date:       s.CreatedAt,
			Emotion:    SoftLabel(s.PrimaryEmotion),
			Weight:     EmotionalWeight(s.PrimaryEmotion),
			TimeBucket: string(s.TimeBucket),
		})
		if len(out) == timelineLength {
			break
		}
	}
	return out
}
