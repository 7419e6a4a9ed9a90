package bucket

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mendapp/mend/internal/domain"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(Weights{})
	tests := []struct {
		name string
		text string
		mode domain.Mode
		want domain.Bucket
	}{
		{"zero scores pick first allowed", "hello there", domain.ModeReflect, domain.BucketEmotionalProcessing},
		{"zero scores under decide", "hello there", domain.ModeDecide, domain.BucketDecisionMaking},
		{"pattern cue", "I always do this again and again", domain.ModeReflect, domain.BucketPatternReflection},
		{"venting in containment mode", "ugh I am so sick of this", domain.ModeSitWithMe, domain.BucketVenting},
		{"reassurance", "am I overreacting here", domain.ModeListen, domain.BucketReassurance},
		{"practical action", "what should i do next, any advice", domain.ModeDecide, domain.BucketPracticalAction},
		{"decision", "should i take the job, I'm torn between them", domain.ModeDecide, domain.BucketDecisionMaking},
		{"perspective", "help me understand another angle", domain.ModeChallenge, domain.BucketSeekingPerspective},
		{"disallowed bucket ignored", "what should i do next, any advice", domain.ModeListen, domain.BucketVenting},
		{"unknown mode uses default", "this keeps happening every time", domain.Mode("Dance with me"), domain.BucketPatternReflection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.text, tt.mode))
		})
	}
}

func TestClassify_CrisisOverridesEveryMode(t *testing.T) {
	c := NewClassifier(DefaultWeights())
	for _, m := range Modes {
		assert.Equal(t, domain.BucketCrisis, c.Classify("Some days I think I'd be better off dead", m), m)
		assert.True(t, Permits(m, domain.BucketCrisis))
	}
}

func TestClassify_TieGoesToFirstListed(t *testing.T) {
	c := NewClassifier(DefaultWeights())
	// Both Emotional Processing and Pattern Reflection score 3.
	assert.Equal(t, domain.BucketEmotionalProcessing, c.Classify("I feel it again", domain.ModeReflect))
}

func TestScores(t *testing.T) {
	c := NewClassifier(DefaultWeights())
	scores := c.Scores("I'm exhausted and done with it, I need to vent", domain.ModeSitWithMe)
	require.Len(t, scores, 3)
	assert.Equal(t, Score{Bucket: domain.BucketVenting, Points: 5}, scores[0])
	assert.Equal(t, 0, scores[1].Points)
}

func TestWeightOverrides(t *testing.T) {
	c := NewClassifier(Weights{Strong: 3, Supporting: 2, Overrides: map[string]int{"Reassurance.supporting": 10}})
	// "frustrated" is a strong venting cue, "scared" a supporting reassurance cue.
	assert.Equal(t, domain.BucketReassurance, c.Classify("frustrated and scared", domain.ModeSitWithMe))

	plain := NewClassifier(DefaultWeights())
	assert.Equal(t, domain.BucketVenting, plain.Classify("frustrated and scared", domain.ModeSitWithMe))
}

func TestClassifyTurn_UsesLatestUserMessage(t *testing.T) {
	c := NewClassifier(DefaultWeights())
	msgs := []domain.Message{
		{Role: domain.RoleUser, Content: "I want to die"},
		{Role: domain.RoleAssistant, Content: "I'm here with you."},
		{Role: domain.RoleUser, Content: "should i quit or stay, it's a real dilemma"},
	}
	assert.Equal(t, domain.BucketDecisionMaking, c.ClassifyTurn(msgs, domain.ModeDecide))
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("  just listen ")
	assert.True(t, ok)
	assert.Equal(t, domain.ModeListen, m)

	m, ok = ParseMode("")
	assert.False(t, ok)
	assert.Equal(t, domain.DefaultMode, m)
}

func TestAllowed(t *testing.T) {
	assert.Equal(t, []domain.Bucket{domain.BucketVenting, domain.BucketReassurance}, Allowed(domain.ModeListen))
	assert.Equal(t, Allowed(domain.ModeReflect), Allowed(domain.Mode("nope")))
	assert.False(t, Permits(domain.ModeListen, domain.BucketDecisionMaking))
}

func TestTone(t *testing.T) {
	assert.Contains(t, Tone(domain.ModeListen), "No advice")
	assert.Equal(t, Tone(domain.ModeReflect), Tone(domain.Mode("unknown")))
}

func TestTemplateFor(t *testing.T) {
	for _, b := range []domain.Bucket{
		domain.BucketVenting, domain.BucketReassurance, domain.BucketEmotionalProcessing,
		domain.BucketPatternReflection, domain.BucketSeekingPerspective, domain.BucketDecisionMaking,
		domain.BucketPracticalAction, domain.BucketCrisis,
	} {
		tpl := TemplateFor(b)
		assert.Equal(t, b, tpl.Bucket)
		assert.NotEmpty(t, tpl.Goal, b)
		assert.NotEmpty(t, tpl.Instruction, b)
		assert.NotEmpty(t, tpl.Required, b)
		for _, part := range tpl.Shape {
			assert.NotEmpty(t, part, b)
		}
	}
	assert.Equal(t, domain.BucketEmotionalProcessing, TemplateFor("Mystery").Bucket)
}

func TestTemplatePrompt(t *testing.T) {
	p := TemplateFor(domain.BucketCrisis).Prompt()
	assert.True(t, strings.HasPrefix(p, "Communication bucket: Crisis\n"))
	assert.Contains(t, p, "3. stay with them")
	assert.Contains(t, p, "crisis helpline")
}
