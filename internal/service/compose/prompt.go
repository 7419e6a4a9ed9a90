package compose

import (
	"fmt"
	"strings"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/service/bucket"
	"github.com/mendapp/mend/internal/service/pattern"
)

// VariationOpeners are offered to the draft so replies don't all start alike.
var VariationOpeners = []string{
	"That's a lot to hold.",
	"I'm with you.",
	"Let's slow this down for a second.",
	"Okay. We can take this one piece at a time.",
	"I hear you.",
	"We don't need to rush this.",
	"That's worth sitting with.",
	"I'm glad you're saying this.",
}

const identity = "You are MEND, a reflective emotional companion. Not a therapist, coach, or authority."

const crisisOverride = "CRISIS OVERRIDE: Gently acknowledge what they shared. Encourage reaching out to someone they trust or a helpline. Be present, not prescriptive."

const listenOverride = "JUST LISTEN MODE: Do NOT give advice. Do NOT reframe. Do NOT infer patterns. Mirror and summarize only. Let them feel heard."

// draftInput is everything the draft pass is shaped by.
type draftInput struct {
	mode      domain.Mode
	bucket    domain.Bucket
	state     *domain.UserState
	snapshot  *domain.ConversationSnapshot
	opener    string
	wordLimit int
	hedges    []string
}

// userContext phrases aggregated state as narrative hints. It never
// includes counts or scores.
func userContext(state *domain.UserState) string {
	if state == nil {
		return ""
	}
	var parts []string
	if len(state.TopEmotions) > 0 {
		parts = append(parts, fmt.Sprintf("Their recent emotional landscape includes: %s.", strings.Join(state.TopEmotions, ", ")))
	}
	if len(state.TopContexts) > 0 {
		parts = append(parts, fmt.Sprintf("Themes they've been reflecting on: %s.", themeList(state.TopContexts)))
	}
	switch state.IntensityTrend {
	case domain.TrendRising:
		parts = append(parts, "Their emotional intensity has been increasing recently.")
	case domain.TrendEasing:
		parts = append(parts, "Things seem to be settling a bit for them lately.")
	}
	if len(state.RecurringThemes) > 0 {
		parts = append(parts, fmt.Sprintf("Recurring themes: %s.", themeList(state.RecurringThemes)))
	}
	if state.TimeBucketPattern != "" {
		parts = append(parts, fmt.Sprintf("They tend to reflect most during the %s.", state.TimeBucketPattern))
	}
	if len(parts) == 0 {
		return ""
	}
	return "User context (reference naturally, never quote stats or say \"I noticed a pattern\"):\n" + strings.Join(parts, "\n")
}

func themeList(ctxs []domain.Context) string {
	labels := make([]string, len(ctxs))
	for i, c := range ctxs {
		labels[i] = pattern.ThemeLabel(c)
	}
	return strings.Join(labels, ", ")
}

func conversationContext(snap *domain.ConversationSnapshot) string {
	if snap == nil || strings.TrimSpace(snap.Summary) == "" {
		return ""
	}
	out := "Conversation so far (for continuity, do not repeat it back):\n" + snap.Summary
	if len(snap.Themes) > 0 {
		out += "\nOpen threads: " + strings.Join(snap.Themes, ", ")
	}
	return out
}

func quoted(phrases []string) string {
	q := make([]string, len(phrases))
	for i, p := range phrases {
		q[i] = fmt.Sprintf("%q", p)
	}
	return strings.Join(q, ", ")
}

func draftSystem(in draftInput) string {
	var sb strings.Builder
	sb.WriteString(identity)
	fmt.Fprintf(&sb, "\n\nCurrent experience mode: %s\nTone: %s\n\n", in.mode, bucket.Tone(in.mode))
	sb.WriteString(bucket.TemplateFor(in.bucket).Prompt())

	for _, block := range []string{userContext(in.state), conversationContext(in.snapshot)} {
		if block != "" {
			sb.WriteString("\n\n")
			sb.WriteString(block)
		}
	}

	fmt.Fprintf(&sb, `

HARD CONSTRAINTS:
- Maximum %d words.
- Structure your reply as exactly 3 short parts (3 paragraphs or 3 lines).
- Each reply MUST include: one specific emotion from the user message, one concrete detail from the user message, and one targeted question.
- FORBIDDEN phrases: %s. Find other ways to reflect.
- Vary your opening lines. Here is one you could use if it fits: %q
- Speak tentatively when reflecting, not conclusively.
- Reflect the user's words and emotional tone before adding anything new.
- Do NOT explain why feelings occur or suggest underlying causes.
- Do NOT interpret motivations, patterns, or origins unless the user explicitly asks.
- Avoid therapist-style or clinical language.
- Do not introduce metaphors or theories unless the user uses them first.
- Never give advice, solutions, action items, or next steps.
- Never use diagnostic or clinical terms.
- Never present yourself as an expert or authority.`, in.wordLimit, quoted(in.hedges), in.opener)

	writeOverrides(&sb, in.mode, in.bucket)
	sb.WriteString("\n\nIf unsure, default to mirroring and asking \"what do you notice?\".")
	return sb.String()
}

func writeOverrides(sb *strings.Builder, mode domain.Mode, b domain.Bucket) {
	if mode == domain.ModeListen {
		sb.WriteString("\n\n" + listenOverride)
	}
	if b == domain.BucketCrisis {
		sb.WriteString("\n\n" + crisisOverride)
	}
}

// rewriteSystem builds the strict instruction for the streamed pass. The
// draft is embedded as grounding.
func rewriteSystem(mode domain.Mode, b domain.Bucket, draft, latest string, wordLimit int, hedges []string) string {
	var sb strings.Builder
	sb.WriteString(identity)
	fmt.Fprintf(&sb, "\n\nRewrite the draft reply below into the final reply. Keep its warmth and its tone: %s\n", bucket.Tone(mode))
	fmt.Fprintf(&sb, `
The final reply MUST follow this shape:
1. One formulation sentence, in exactly this form: "Because <concrete detail from their message>, you're feeling <surface emotion>, and you need <what they need>."
2. Name exactly one surface emotion. You may also name one protective emotion underneath it, never more.
3. Quote the user's own words literally at least once, inside quotation marks.
4. Ask exactly one question, and make it the last sentence.

Also:
- Maximum %d words, at most 3 short paragraphs.
- FORBIDDEN phrases: %s.
- No advice, diagnosis, or clinical language.
- Output only the final reply, with no preamble or labels.

The user's latest message:
%q

Draft reply (grounding only, do not copy its structure):
<<<
%s
>>>`, wordLimit, quoted(hedges), latest, strings.TrimSpace(draft))

	writeOverrides(&sb, mode, b)
	return sb.String()
}

const summarySystem = `You keep a short rolling summary of a private reflective conversation so the companion can stay consistent across turns.

Update the previous summary with the latest exchange.
- summary: at most two sentences, written about "the user", with no names, no quotes and no clinical or diagnostic language.
- themes: up to 3 short lowercase phrases naming what the conversation is about.
- Respond with JSON only.`

func summaryInput(prev *domain.ConversationSnapshot, userText, reply string) string {
	var sb strings.Builder
	if prev != nil && prev.Summary != "" {
		fmt.Fprintf(&sb, "Previous summary: %s\n", prev.Summary)
		if len(prev.Themes) > 0 {
			fmt.Fprintf(&sb, "Previous themes: %s\n", strings.Join(prev.Themes, ", "))
		}
	} else {
		sb.WriteString("Previous summary: none\n")
	}
	fmt.Fprintf(&sb, "\nUser: %s\nCompanion: %s", userText, reply)
	return sb.String()
}
