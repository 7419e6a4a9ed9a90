package bucket

import (
	"strings"

	"github.com/mendapp/mend/internal/domain"
)

// modeBuckets is each mode's allow-list in priority order.
var modeBuckets = map[domain.Mode][]domain.Bucket{
	domain.ModeReflect: {
		domain.BucketEmotionalProcessing, domain.BucketPatternReflection, domain.BucketSeekingPerspective,
	},
	domain.ModeSitWithMe: {
		domain.BucketVenting, domain.BucketReassurance, domain.BucketEmotionalProcessing,
	},
	domain.ModeChallenge: {
		domain.BucketSeekingPerspective, domain.BucketPatternReflection, domain.BucketDecisionMaking,
	},
	domain.ModeDecide: {
		domain.BucketDecisionMaking, domain.BucketPracticalAction, domain.BucketSeekingPerspective,
	},
	domain.ModeListen: {
		domain.BucketVenting, domain.BucketReassurance,
	},
}

var modeTone = map[domain.Mode]string{
	domain.ModeReflect:   "Gentle and curious. Reflect their words back, then ask one open question.",
	domain.ModeSitWithMe: "Quiet and validating. Hold space. Favor acknowledgment over questions. Slower pacing.",
	domain.ModeChallenge: "Warm but honest. Offer one soft reframe. Still kind. One question max.",
	domain.ModeDecide:    "Structured and clear. Name the tension. One clarifying question to help them get closer.",
	domain.ModeListen:    "Mirror and summarize only. No advice. No reframing. No inferred patterns. Let them feel heard.",
}

// Modes lists the supported modes.
var Modes = []domain.Mode{
	domain.ModeReflect, domain.ModeSitWithMe, domain.ModeChallenge, domain.ModeDecide, domain.ModeListen,
}

// ParseMode matches s against the supported modes case-insensitively.
// Unknown or empty input yields domain.DefaultMode and ok=false.
func ParseMode(s string) (mode domain.Mode, ok bool) {
	s = strings.TrimSpace(s)
	for _, m := range Modes {
		if strings.EqualFold(string(m), s) {
			return m, true
		}
	}
	return domain.DefaultMode, false
}

// Allowed returns the mode's bucket allow-list in priority order.
func Allowed(mode domain.Mode) []domain.Bucket {
	if b, ok := modeBuckets[mode]; ok {
		return b
	}
	return modeBuckets[domain.DefaultMode]
}

// Tone returns the tone line for mode.
func Tone(mode domain.Mode) string {
	if t, ok := modeTone[mode]; ok {
		return t
	}
	return modeTone[domain.DefaultMode]
}
