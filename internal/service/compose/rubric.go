package compose

import (
	"regexp"
	"strings"
	"sync"
)

// Verdict is the outcome of one rubric check.
type Verdict string

const (
	Pass Verdict = "pass"
	Warn Verdict = "warn"
	Fail Verdict = "fail"
)

// DefaultHedges are phrases a reply must not lean on.
var DefaultHedges = []string{"it sounds like", "it seems like", "maybe", "perhaps", "i wonder if"}

// Rubric scores the structure of a reply.
type Rubric struct {
	WordCeiling   int
	MaxParagraphs int
	Hedges        []string
}

// DefaultRubric returns the production thresholds.
func DefaultRubric() Rubric {
	return Rubric{WordCeiling: 130, MaxParagraphs: 4, Hedges: DefaultHedges}
}

// Check is the result of one rubric rule.
type Check struct {
	Name    string  `json:"name"`
	Verdict Verdict `json:"verdict"`
}

// Report summarizes a rubric run.
type Report struct {
	Words      int      `json:"words"`
	Questions  int      `json:"questions"`
	Paragraphs int      `json:"paragraphs"`
	Hedges     []string `json:"hedges,omitempty"`
	Checks     []Check  `json:"checks"`
}

// Verdict returns the worst verdict across all checks.
func (r Report) Verdict() Verdict {
	worst := Pass
	for _, c := range r.Checks {
		switch {
		case c.Verdict == Fail:
			return Fail
		case c.Verdict == Warn:
			worst = Warn
		}
	}
	return worst
}

var (
	questionRun    = regexp.MustCompile(`\?+`)
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
)

// Validate scores text. It never modifies or rejects the text.
func (r Rubric) Validate(text string) Report {
	rep := Report{
		Words:      len(strings.Fields(text)),
		Questions:  len(questionRun.FindAllString(text, -1)),
		Paragraphs: countParagraphs(text),
	}

	lower := strings.ToLower(text)
	for _, h := range r.Hedges {
		if hedgePattern(h).MatchString(lower) {
			rep.Hedges = append(rep.Hedges, h)
		}
	}

	rep.Checks = []Check{
		{Name: "hedges", Verdict: verdictIf(len(rep.Hedges) == 0, Fail)},
		{Name: "word_ceiling", Verdict: verdictIf(r.WordCeiling <= 0 || rep.Words <= r.WordCeiling, Fail)},
		{Name: "questions", Verdict: questionVerdict(rep.Questions)},
		{Name: "paragraphs", Verdict: verdictIf(r.MaxParagraphs <= 0 || rep.Paragraphs <= r.MaxParagraphs, Fail)},
	}
	return rep
}

func verdictIf(ok bool, otherwise Verdict) Verdict {
	if ok {
		return Pass
	}
	return otherwise
}

// Exactly one question passes; zero or two are tolerated as a warning.
func questionVerdict(n int) Verdict {
	switch {
	case n == 1:
		return Pass
	case n == 0 || n == 2:
		return Warn
	default:
		return Fail
	}
}

func countParagraphs(text string) int {
	n := 0
	for _, p := range paragraphBreak.Split(strings.TrimSpace(text), -1) {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

// hedgePatterns holds one compiled word-boundary pattern per hedge phrase.
var hedgePatterns sync.Map

func hedgePattern(h string) *regexp.Regexp {
	if re, ok := hedgePatterns.Load(h); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(h)) + `\b`)
	actual, _ := hedgePatterns.LoadOrStore(h, re)
	return actual.(*regexp.Regexp)
}
