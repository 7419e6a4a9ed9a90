package pattern

import (
	"strings"

	"github.com/mendapp/mend/internal/domain"
)

// Weight is the emotional weight class of an emotion.
type Weight string

const (
	WeightLight  Weight = "light"
	WeightMedium Weight = "medium"
	WeightHeavy  Weight = "heavy"
)

var emotionWeights = map[string]Weight{
	"calm": WeightLight, "content": WeightLight, "hopeful": WeightLight, "grateful": WeightLight,
	"joyful": WeightLight, "excited": WeightLight, "relieved": WeightLight, "motivated": WeightLight,

	"tired": WeightMedium, "confused": WeightMedium, "insecure": WeightMedium,
	"uncertain": WeightMedium, "numb": WeightMedium,

	"overwhelmed": WeightHeavy, "stressed": WeightHeavy, "uneasy": WeightHeavy,
	"anxious_like": WeightHeavy, "sad": WeightHeavy, "heavy": WeightHeavy, "lonely": WeightHeavy,
	"frustrated": WeightHeavy, "angry": WeightHeavy, "guilty": WeightHeavy, "ashamed": WeightHeavy,
	"hurt": WeightHeavy, "distressed": WeightHeavy,
}

var softLabels = map[string]string{
	"calm":      "calm",
	"content":   "at ease",
	"hopeful":   "hopeful",
	"grateful":  "grateful",
	"joyful":    "lighter",
	"excited":   "energized",
	"relieved":  "relieved",
	"motivated": "focused",

	"tired":     "drained",
	"confused":  "uncertain",
	"insecure":  "unsure",
	"uncertain": "unsettled",
	"numb":      "distant",

	"overwhelmed":  "overwhelmed",
	"stressed":     "tense",
	"uneasy":       "uneasy",
	"anxious_like": "uneasy",
	"sad":          "heavy",
	"heavy":        "heavy",
	"lonely":       "lonely",
	"frustrated":   "frustrated",
	"angry":        "frustrated",
	"guilty":       "weighed down",
	"ashamed":      "weighed down",
	"hurt":         "tender",
	"distressed":   "stirred up",
}

// themeLabels name contexts on pattern surfaces.
var themeLabels = map[string]string{
	"relationships": "relationships",
	"relationship":  "relationships",
	"self":          "self-reflection",
	"self_worth":    "self-worth",
	"routine":       "daily rhythm",
	"daily":         "daily rhythm",
	"sleep":         "rest",
	"work":          "work",
	"family":        "family",
	"health":        "well-being",
	"future":        "the future",
	"past":          "the past",
	"safety":        "feeling safe",
}

// contextPhrases name contexts inside sentences ("connected to yourself").
var contextPhrases = map[string]string{
	"self":    "yourself",
	"routine": "daily routine",
	"health":  "health",
	"sleep":   "sleep",
}

// EmotionalWeight classifies an emotion; unknown emotions are medium.
func EmotionalWeight(e domain.Emotion) Weight {
	if w, ok := emotionWeights[norm(string(e))]; ok {
		return w
	}
	return WeightMedium
}

// SoftLabel returns the gentle, non-clinical display label for an emotion.
func SoftLabel(e domain.Emotion) string {
	n := norm(string(e))
	if l, ok := softLabels[n]; ok {
		return l
	}
	return strings.ReplaceAll(n, "_", " ")
}

// ThemeLabel returns the display label for a context.
func ThemeLabel(c domain.Context) string {
	n := norm(string(c))
	if l, ok := themeLabels[n]; ok {
		return l
	}
	return n
}

// ContextPhrase returns a context label that reads naturally mid-sentence.
func ContextPhrase(c domain.Context) string {
	n := norm(string(c))
	if l, ok := contextPhrases[n]; ok {
		return l
	}
	return ThemeLabel(c)
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
