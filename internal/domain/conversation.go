package domain

import "time"

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat session.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Mode is the conversational experience the user selected.
type Mode string

const (
	ModeReflect   Mode = "Reflect with me"
	ModeSitWithMe Mode = "Sit with me"
	ModeChallenge Mode = "Challenge me gently"
	ModeDecide    Mode = "Help me decide"
	ModeListen    Mode = "Just listen"
)

// DefaultMode is used when no mode (or an unknown one) is supplied.
const DefaultMode = ModeReflect

// Bucket is the per-turn communication purpose that shapes reply structure.
type Bucket string

const (
	BucketVenting             Bucket = "Venting"
	BucketReassurance         Bucket = "Reassurance"
	BucketEmotionalProcessing Bucket = "Emotional Processing"
	BucketPatternReflection   Bucket = "Pattern Reflection"
	BucketSeekingPerspective  Bucket = "Seeking Perspective"
	BucketDecisionMaking      Bucket = "Decision Making"
	BucketPracticalAction     Bucket = "Practical Action"
	BucketCrisis              Bucket = "Crisis"
)

// ConversationSnapshot is the rolling summary that gives the composer continuity
// without replaying full history. It is overwritten every turn.
type ConversationSnapshot struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Summary   string    `json:"summary" db:"summary"`
	Themes    []string  `json:"themes" db:"themes"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MaxSnapshotThemes caps ConversationSnapshot.Themes.
const MaxSnapshotThemes = 3

// ModePreference records the companion mode a user last chose.
type ModePreference struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Mode      Mode      `json:"companion_mode" db:"companion_mode"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LastUserMessage returns the content of the most recent user message, or "".
func LastUserMessage(msgs []Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}

// CountUserMessages returns the number of user-authored messages.
func CountUserMessages(msgs []Message) int {
	n := 0
	for _, m := range msgs {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}
