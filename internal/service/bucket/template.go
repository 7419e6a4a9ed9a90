package bucket

import (
	"fmt"
	"strings"

	"github.com/mendapp/mend/internal/domain"
)

// Template is the structure a reply in a bucket must follow.
type Template struct {
	Bucket      domain.Bucket `json:"bucket"`
	Goal        string        `json:"goal"`
	Shape       [3]string     `json:"shape"`
	Required    []string      `json:"required"`
	Instruction string        `json:"instruction"`
}

var commonRequired = []string{
	"one specific emotion from the user's message",
	"one concrete detail from the user's message",
	"one targeted question",
}

var templates = map[domain.Bucket]Template{
	domain.BucketVenting: {
		Goal:        "Let them release without being redirected.",
		Shape:       [3]string{"acknowledge the weight in their words", "name the emotion and the detail", "one grounding question"},
		Instruction: "Let them release. Acknowledge the weight they are carrying using their own words. Name the specific emotion you hear. Reference one concrete detail from what they said. End with one grounding question that does not redirect or reframe.",
	},
	domain.BucketReassurance: {
		Goal:        "Help them feel seen, not analyzed.",
		Shape:       [3]string{"affirm the feeling without minimizing", "name the emotion and the detail", "one question that helps them feel seen"},
		Instruction: "Affirm what they are feeling without minimizing it. Name the specific emotion present. Reference one concrete detail from their message. Ask one question that helps them feel seen, not analyzed.",
	},
	domain.BucketEmotionalProcessing: {
		Goal:        "Help them sit with the feeling.",
		Shape:       [3]string{"reflect the emotion in their words", "anchor on one concrete detail", "one question that deepens awareness"},
		Instruction: "Reflect the specific emotion you hear in their words. Reference one concrete detail they shared. Help them sit with the feeling by asking one question that deepens their awareness without explaining why they feel this way.",
	},
	domain.BucketPatternReflection: {
		Goal:        "Invite curiosity about a repetition they described.",
		Shape:       [3]string{"name the pattern they described", "anchor on one concrete detail", "one curious question without interpreting cause"},
		Instruction: "Name the specific pattern or repetition they are describing. Reference one concrete detail from their message. Ask one question that invites curiosity about the pattern without interpreting its cause.",
	},
	domain.BucketSeekingPerspective: {
		Goal:        "Open one new way of looking at the situation.",
		Shape:       [3]string{"offer one alternative angle", "name the emotion underneath and the detail", "one question that opens a new view"},
		Instruction: "Offer one alternative angle on what they shared. Name the specific emotion underneath. Reference one concrete detail from their message. Ask one question that opens a new way of looking at the situation.",
	},
	domain.BucketDecisionMaking: {
		Goal:        "Bring them closer to what matters most to them.",
		Shape:       [3]string{"reflect the tension between options", "name the emotion and the detail", "one clarifying question"},
		Instruction: "Reflect the tension they are holding between options. Name the specific emotion present. Reference one concrete detail they shared. Ask one clarifying question that brings them closer to what matters most to them.",
	},
	domain.BucketPracticalAction: {
		Goal:        "Find the smallest next step from where they are.",
		Shape:       [3]string{"acknowledge where they are right now", "name the emotion and the detail", "one question about the smallest next step"},
		Instruction: "Acknowledge where they are right now. Name the specific emotion you hear. Reference one concrete detail from their message. Ask one focused question about the smallest next step they could take.",
	},
	domain.BucketCrisis: {
		Goal:        "Be present and point toward support.",
		Shape:       [3]string{"gently acknowledge what they shared", "encourage reaching someone they trust or a crisis helpline", "stay with them, briefly and warmly"},
		Required:    []string{"acknowledgment without minimizing", "encouragement to contact a trusted person or helpline"},
		Instruction: "Gently acknowledge what they shared. Do not minimize or redirect. Encourage them to reach out to someone they trust or a crisis helpline. Be present, not prescriptive. Keep your response brief and warm.",
	},
}

// TemplateFor returns the structural template of b. Unknown buckets use
// Emotional Processing.
func TemplateFor(b domain.Bucket) Template {
	t, ok := templates[b]
	if !ok {
		b = domain.BucketEmotionalProcessing
		t = templates[b]
	}
	t.Bucket = b
	if t.Required == nil {
		t.Required = commonRequired
	}
	return t
}

// Prompt renders the template as system-instruction lines.
func (t Template) Prompt() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Communication bucket: %s\n", t.Bucket)
	fmt.Fprintf(&sb, "Goal: %s\n", t.Goal)
	sb.WriteString("Shape (exactly 3 short parts):\n")
	for i, part := range t.Shape {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, part)
	}
	sb.WriteString("Must include:\n")
	for _, r := range t.Required {
		fmt.Fprintf(&sb, "- %s\n", r)
	}
	fmt.Fprintf(&sb, "Bucket instruction: %s", t.Instruction)
	return sb.String()
}
