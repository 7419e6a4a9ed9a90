package bucket

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/service/intent"
)

// Weights are the points a matching cue adds. Overrides are keyed by
// "<bucket>.<strength>", for example "Venting.strong".
type Weights struct {
	Strong     int            `yaml:"strong" json:"strong"`
	Supporting int            `yaml:"supporting" json:"supporting"`
	Overrides  map[string]int `yaml:"overrides" json:"overrides,omitempty"`
}

// DefaultWeights returns +3 for strong cues and +2 for supporting ones.
func DefaultWeights() Weights {
	return Weights{Strong: 3, Supporting: 2}
}

func (w Weights) of(r Rule) int {
	if v, ok := w.Overrides[fmt.Sprintf("%s.%s", r.Bucket, r.Strength)]; ok {
		return v
	}
	if r.Strength == Strong {
		return w.Strong
	}
	return w.Supporting
}

// Classifier scores a message against the bucket rules.
type Classifier struct {
	rules   []Rule
	weights Weights
}

// NewClassifier creates a classifier over DefaultRules. Zero weights fall
// back to DefaultWeights.
func NewClassifier(w Weights) *Classifier {
	def := DefaultWeights()
	if w.Strong == 0 {
		w.Strong = def.Strong
	}
	if w.Supporting == 0 {
		w.Supporting = def.Supporting
	}
	return &Classifier{rules: DefaultRules, weights: w}
}

// Score is one allowed bucket and its accumulated points.
type Score struct {
	Bucket domain.Bucket `json:"bucket"`
	Points int           `json:"points"`
}

// Scores returns the points of every bucket mode allows, in priority order.
func (c *Classifier) Scores(text string, mode domain.Mode) []Score {
	allowed := Allowed(mode)
	lower := strings.ToLower(text)
	scores := make([]Score, len(allowed))
	for i, b := range allowed {
		scores[i].Bucket = b
		for _, r := range c.rules {
			if r.Bucket == b && r.Pattern.MatchString(lower) {
				scores[i].Points += c.weights.of(r)
			}
		}
	}
	return scores
}

// Classify returns the bucket for text under mode. Crisis language always
// yields Crisis. Otherwise the highest score wins and ties, including all
// zeros, go to the earliest bucket in the mode's allow-list.
func (c *Classifier) Classify(text string, mode domain.Mode) domain.Bucket {
	if intent.ContainsCrisis(text) {
		return domain.BucketCrisis
	}
	scores := c.Scores(text, mode)
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Points > best.Points {
			best = s
		}
	}
	return best.Bucket
}

// ClassifyTurn classifies the latest user message in msgs.
func (c *Classifier) ClassifyTurn(msgs []domain.Message, mode domain.Mode) domain.Bucket {
	return c.Classify(domain.LastUserMessage(msgs), mode)
}

// Permits reports whether b is reachable under mode.
func Permits(mode domain.Mode, b domain.Bucket) bool {
	return b == domain.BucketCrisis || slices.Contains(Allowed(mode), b)
}
