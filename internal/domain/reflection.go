package domain

// TriggerType identifies which recurring pattern produced a reflection.
type TriggerType string

const (
	TriggerEmotion    TriggerType = "emotion"
	TriggerContext    TriggerType = "context"
	TriggerEscalation TriggerType = "escalation"
	TriggerTimeBucket TriggerType = "time_bucket"
)

// ReflectionTrigger is a one-shot observation surfaced mid-conversation.
type ReflectionTrigger struct {
	Type    TriggerType `json:"type"`
	Message string      `json:"message"`
}
