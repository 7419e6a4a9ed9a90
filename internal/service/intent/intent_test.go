package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mendapp/mend/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		msg  string
		want Intent
	}{
		{"Why do you ask that?", Meta},
		{"are you a real person or a bot, honestly tell me", Meta},
		{"ok?", Meta},
		{"How do I cancel my subscription", Logistics},
		{"where is the journal page", Logistics},
		{"This happens every time I visit my parents", PatternCuriosity},
		{"I always end up apologizing first", PatternCuriosity},
		{"I feel so tired", Disclosure},
		{"work was a lot today honestly", Disclosure},
		{"hm", Unknown},
		{"", Unknown},
		{"what should I even make of all of this though, given everything?", Unknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.msg), tt.msg)
	}
}

func TestClassify_MetaBeatsPatternCuriosity(t *testing.T) {
	// Contains "again" but is a short question.
	assert.Equal(t, Meta, Classify("Why again?"))
}

func TestReceptive(t *testing.T) {
	assert.True(t, Receptive("I have been feeling really stretched at work"))
	assert.False(t, Receptive("I feel tired"))
	assert.False(t, Receptive("I guess work has been kind of heavy"))
	assert.False(t, Receptive("Whatever, it doesn't matter to anyone anyway"))
}

func TestClassifyLatest(t *testing.T) {
	msgs := []domain.Message{
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "Hello. How are you?"},
		{Role: domain.RoleUser, Content: "I've been feeling heavy every evening this week"},
		{Role: domain.RoleAssistant, Content: "That's a lot to hold."},
	}
	r := ClassifyLatest(msgs)
	assert.Equal(t, Disclosure, r.Intent)
	assert.True(t, r.Receptive)
	assert.True(t, r.Invites())

	empty := ClassifyLatest(nil)
	assert.Equal(t, Unknown, empty.Intent)
	assert.False(t, empty.Invites())
}

func TestInvites(t *testing.T) {
	assert.True(t, Result{Intent: PatternCuriosity, Receptive: true}.Invites())
	assert.False(t, Result{Intent: Disclosure, Receptive: false}.Invites())
	assert.False(t, Result{Intent: Meta, Receptive: true}.Invites())
}

func TestContainsCrisis(t *testing.T) {
	assert.True(t, ContainsCrisis("Sometimes I think everyone is Better Off Dead without me"))
	assert.True(t, ContainsCrisis("I can't go on like this"))
	assert.True(t, ContainsCrisis("thinking about self harm"))
	assert.False(t, ContainsCrisis("I'm exhausted by work"))
}

func TestRecentCrisis(t *testing.T) {
	msgs := []domain.Message{
		{Role: domain.RoleUser, Content: "I want to die"},
		{Role: domain.RoleAssistant, Content: "I'm here."},
		{Role: domain.RoleUser, Content: "work is hard"},
		{Role: domain.RoleAssistant, Content: "I hear you."},
	}
	assert.False(t, RecentCrisis(msgs, 3))
	assert.True(t, RecentCrisis(msgs, 4))
	assert.True(t, RecentCrisis(msgs[:1], 3))
}
