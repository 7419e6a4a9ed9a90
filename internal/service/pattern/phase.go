package pattern

import (
	"strings"

	"github.com/mendapp/mend/internal/domain"
)

const phaseWindow = 10

var heavyEmotions = map[string]bool{
	"anxious": true, "anxious_like": true, "anxiety": true,
	"overwhelmed": true, "heavy": true, "sad": true, "sadness": true,
	"angry": true, "anger": true, "frustrated": true,
	"exhausted": true, "drained": true, "numb": true,
	"stressed": true, "worried": true, "fearful": true,
	"guilt": true, "shame": true, "resentful": true,
}

var lightEmotions = map[string]bool{
	"calm": true, "relieved": true, "hopeful": true,
	"grateful": true, "happy": true, "joy": true,
	"content": true, "lighter": true, "at ease": true,
}

// DerivePhase classifies the most recent signals. sigs must be ordered
// newest first; only the first ten are read.
func DerivePhase(sigs []domain.Signal) domain.UserPhase {
	if len(sigs) < 3 {
		return domain.PhaseSettling
	}
	recent := sigs
	if len(recent) > phaseWindow {
		recent = recent[:phaseWindow]
	}

	emotions := newCounter[string]()
	contexts := newCounter[string]()
	var heavy, light int
	for _, s := range recent {
		e := strings.ToLower(string(s.PrimaryEmotion))
		emotions.add(e)
		contexts.add(strings.ToLower(string(s.Context)))
		if heavyEmotions[e] {
			heavy++
		}
		if lightEmotions[e] {
			light++
		}
	}

	trend := phaseTrend(recent)
	_, maxEmotion, _ := emotions.max()
	_, maxContext, _ := contexts.max()

	switch {
	case trend < -0.3 && light > heavy:
		return domain.PhaseEasing
	case float64(heavy) >= float64(len(recent))*0.5 && trend >= -0.2:
		return domain.PhaseCarrying
	case maxEmotion >= 3 || maxContext >= 3:
		return domain.PhaseCircling
	default:
		return domain.PhaseSettling
	}
}

// phaseTrend is mean(recent half) - mean(older half); positive means
// intensifying.
func phaseTrend(sigs []domain.Signal) float64 {
	if len(sigs) < 3 {
		return 0
	}
	scores := make([]float64, len(sigs))
	for i, s := range sigs {
		scores[i] = IntensityOrDefault(string(s.Intensity))
	}
	mid := len(scores) / 2
	return mean(scores[:mid]) - mean(scores[mid:])
}
