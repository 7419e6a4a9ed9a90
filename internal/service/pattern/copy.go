package pattern

import "github.com/mendapp/mend/internal/domain"

// PhaseCopy is the phase-aware copy for entry surfaces. The phase itself is
// never part of it.
type PhaseCopy struct {
	OpeningLine  string `json:"opening_line"`
	WelcomeText  string `json:"welcome_text"`
	EmptyHeading string `json:"empty_heading"`
	EmptyBody    string `json:"empty_body"`
	StartCTA     string `json:"start_cta"`
	AddCheckIn   string `json:"add_check_in_cta"`
	ShortCTA     string `json:"short_cta"`
}

const anonymousWelcome = "This is a safe, private space. Take your time."

var phaseCopy = map[domain.UserPhase]PhaseCopy{
	domain.PhaseSettling: {
		OpeningLine:  "How are you feeling right now?",
		WelcomeText:  "This is your space to check in. How are you feeling?",
		EmptyHeading: "Your patterns are still forming",
		EmptyBody:    "MEND is still listening. Patterns show up after a few honest conversations.",
		StartCTA:     "Start a conversation",
		AddCheckIn:   "Add a check-in",
		ShortCTA:     "Check in",
	},
	domain.PhaseCircling: {
		OpeningLine:  "I notice you've been sitting with something. What feels present today?",
		WelcomeText:  "You keep showing up here. That matters.",
		EmptyHeading: "Patterns take shape slowly",
		EmptyBody:    "Each check-in adds a thread. The picture becomes clearer over time.",
		StartCTA:     "Continue",
		AddCheckIn:   "Continue",
		ShortCTA:     "Continue",
	},
	domain.PhaseCarrying: {
		OpeningLine:  "You've been holding a lot lately. What's here with you right now?",
		WelcomeText:  "This is your space. There's no rush.",
		EmptyHeading: "Understanding grows with time",
		EmptyBody:    "Even when things feel heavy, small moments of reflection matter.",
		StartCTA:     "Take a moment",
		AddCheckIn:   "Pause here",
		ShortCTA:     "Pause",
	},
	domain.PhaseEasing: {
		OpeningLine:  "How are things feeling today?",
		WelcomeText:  "Good to see you. Take your time.",
		EmptyHeading: "You've been building something here",
		EmptyBody:    "Patterns emerge when you least expect them. Keep going.",
		StartCTA:     "Check in",
		AddCheckIn:   "Add a check-in",
		ShortCTA:     "Check in",
	},
}

// CopyFor returns the copy for phase. Unauthenticated visitors get the
// generic welcome text; unknown phases read as settling.
func CopyFor(phase domain.UserPhase, authenticated bool) PhaseCopy {
	c, ok := phaseCopy[phase]
	if !ok {
		c = phaseCopy[domain.PhaseSettling]
	}
	if !authenticated {
		c.WelcomeText = anonymousWelcome
	}
	return c
}
