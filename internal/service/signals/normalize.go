package signals

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mendapp/mend/internal/domain"
)

const (
	// MaxSummaryLen is the longest safe summary kept verbatim.
	MaxSummaryLen = 60
	// DefaultSummary replaces missing or overlong summaries.
	DefaultSummary = "Emotional reflection shared"
	// DefaultConfidence replaces missing or out-of-range confidence values.
	DefaultConfidence = 0.5
)

// RawExtraction is the unvalidated output of an extraction call. Every field
// may hold anything; Normalize decides what survives.
type RawExtraction struct {
	PrimaryEmotion   string   `json:"primary_emotion" jsonschema:"description=One emotion from the allowed list"`
	SecondaryEmotion string   `json:"secondary_emotion" jsonschema:"description=Optional second emotion from the allowed list or an empty string"`
	Intensity        string   `json:"intensity" jsonschema:"description=low medium or high"`
	Context          string   `json:"context" jsonschema:"description=One life area from the allowed list"`
	TimeBucket       string   `json:"time_bucket" jsonschema:"description=morning afternoon evening or night"`
	Confidence       *float64 `json:"confidence" jsonschema:"description=How sure the reading is from 0 to 1"`
	SafeSummary      string   `json:"safe_summary" jsonschema:"description=Non-clinical summary of at most 8 words"`
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalize maps raw into the closed vocabularies. It never fails: unknown
// primary emotions become confused, unknown or empty secondaries are
// dropped, unknown intensities become medium, unknown contexts become other
// and unknown time buckets take fallback (night if fallback is itself
// invalid). UserID, MessageID and CreatedAt are left for the caller.
func Normalize(raw RawExtraction, fallback domain.TimeBucket) domain.Signal {
	sig := domain.Signal{
		PrimaryEmotion: domain.FallbackEmotion,
		Intensity:      domain.FallbackIntensity,
		Context:        domain.FallbackContext,
		TimeBucket:     fallback,
		Confidence:     DefaultConfidence,
		SafeSummary:    DefaultSummary,
	}

	if e := domain.Emotion(clean(raw.PrimaryEmotion)); e.Valid() {
		sig.PrimaryEmotion = e
	}
	if e := domain.Emotion(clean(raw.SecondaryEmotion)); e.Valid() {
		sig.SecondaryEmotion = &e
	}
	if i := domain.Intensity(clean(raw.Intensity)); i.Valid() {
		sig.Intensity = i
	}
	if c := domain.Context(clean(raw.Context)); c.Valid() {
		sig.Context = c
	}
	if b := domain.TimeBucket(clean(raw.TimeBucket)); b.Valid() {
		sig.TimeBucket = b
	} else if !fallback.Valid() {
		sig.TimeBucket = domain.TimeNight
	}
	if raw.Confidence != nil && *raw.Confidence >= 0 && *raw.Confidence <= 1 {
		sig.Confidence = *raw.Confidence
	}
	if s := strings.TrimSpace(raw.SafeSummary); s != "" && utf8.RuneCountInString(s) <= MaxSummaryLen {
		sig.SafeSummary = s
	}
	return sig
}

// DefaultLocation is the zone used to derive fallback time buckets when none
// is configured (IST, UTC+05:30).
var DefaultLocation = time.FixedZone("IST", 5*60*60+30*60)

// BucketAt derives the time bucket for t in loc. A nil loc uses DefaultLocation.
func BucketAt(t time.Time, loc *time.Location) domain.TimeBucket {
	if loc == nil {
		loc = DefaultLocation
	}
	h := t.In(loc).Hour()
	switch {
	case h >= 5 && h < 12:
		return domain.TimeMorning
	case h >= 12 && h < 17:
		return domain.TimeAfternoon
	case h >= 17 && h < 21:
		return domain.TimeEvening
	default:
		return domain.TimeNight
	}
}

// LoadLocation resolves a zone name, falling back to DefaultLocation.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return DefaultLocation
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return DefaultLocation
	}
	return loc
}
