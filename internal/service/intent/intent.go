package intent

import (
	"strings"

	"github.com/mendapp/mend/internal/domain"
)

// Intent is the conversational intent of a user message.
type Intent string

const (
	Meta             Intent = "meta"
	Logistics        Intent = "logistics"
	PatternCuriosity Intent = "pattern_curiosity"
	Disclosure       Intent = "disclosure"
	Unknown          Intent = "unknown"
)

var disclosurePhrases = []string{
	"i feel", "i've been", "i'm struggling", "lately", "can't stop thinking",
	"i am feeling", "been feeling", "it hurts", "i'm afraid", "i'm scared",
	"i'm worried", "i'm anxious", "i'm sad", "i'm angry", "i'm lonely",
	"i miss", "i lost", "i'm overwhelmed", "i'm exhausted", "i'm tired of",
}

var patternPhrases = []string{
	"keep", "always", "again", "pattern", "why does this", "this happens",
	"every time", "same thing", "over and over", "recurring",
}

var metaPhrases = []string{
	"why do you ask", "what are you", "are you", "how does this work",
	"what do you mean", "stop", "don't ask", "who are you", "what is this",
	"how do you know",
}

var logisticsPhrases = []string{
	"pricing", "plan", "login", "signup", "sign up", "log in",
	"where", "how do i", "bug", "error", "account", "subscription",
	"payment", "billing", "cancel",
}

var deflectionPhrases = []string{
	"why do you ask that", "not sure", "leave it", "idk",
	"doesn't matter", "don't know", "whatever", "nevermind",
	"never mind", "drop it", "forget it", "i guess",
}

const (
	shortQuestionLen  = 40
	minDisclosureLen  = 10
	minReceptiveWords = 6
)

type rule struct {
	intent Intent
	match  func(text string) bool
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{Meta, func(t string) bool { return containsAny(t, metaPhrases) || isShortQuestion(t) }},
	{Logistics, func(t string) bool { return containsAny(t, logisticsPhrases) }},
	{PatternCuriosity, func(t string) bool { return containsAny(t, patternPhrases) }},
	{Disclosure, func(t string) bool {
		return containsAny(t, disclosurePhrases) || (len(t) > minDisclosureLen && !strings.HasSuffix(t, "?"))
	}},
}

// Classify returns the intent of one message.
func Classify(message string) Intent {
	text := normalize(message)
	for _, r := range rules {
		if r.match(text) {
			return r.intent
		}
	}
	return Unknown
}

// Receptive reports whether message is long enough (six or more words) and
// free of deflection to be eligible for a reflective interjection.
func Receptive(message string) bool {
	if len(strings.Fields(message)) < minReceptiveWords {
		return false
	}
	return !containsAny(normalize(message), deflectionPhrases)
}

// Result is the classification of a turn's latest user message.
type Result struct {
	Intent    Intent `json:"intent"`
	Receptive bool   `json:"receptive"`
}

// Invites reports whether the result allows a reflective interjection.
func (r Result) Invites() bool {
	return r.Receptive && (r.Intent == Disclosure || r.Intent == PatternCuriosity)
}

// ClassifyLatest classifies the most recent user message in msgs. A session
// without user messages is Unknown and not receptive.
func ClassifyLatest(msgs []domain.Message) Result {
	last := domain.LastUserMessage(msgs)
	if strings.TrimSpace(last) == "" {
		return Result{Intent: Unknown}
	}
	return Result{Intent: Classify(last), Receptive: Receptive(last)}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func isShortQuestion(text string) bool {
	return strings.HasSuffix(text, "?") && len(text) < shortQuestionLen
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
