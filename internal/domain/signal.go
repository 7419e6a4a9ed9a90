package domain

import "time"

// Emotion is a primary or secondary emotion label from the closed extraction vocabulary.
type Emotion string

const (
	EmotionCalm        Emotion = "calm"
	EmotionContent     Emotion = "content"
	EmotionHopeful     Emotion = "hopeful"
	EmotionGrateful    Emotion = "grateful"
	EmotionJoyful      Emotion = "joyful"
	EmotionExcited     Emotion = "excited"
	EmotionTired       Emotion = "tired"
	EmotionOverwhelmed Emotion = "overwhelmed"
	EmotionStressed    Emotion = "stressed"
	EmotionUneasy      Emotion = "uneasy"
	EmotionAnxiousLike Emotion = "anxious_like"
	EmotionSad         Emotion = "sad"
	EmotionHeavy       Emotion = "heavy"
	EmotionLonely      Emotion = "lonely"
	EmotionFrustrated  Emotion = "frustrated"
	EmotionAngry       Emotion = "angry"
	EmotionGuilty      Emotion = "guilty"
	EmotionAshamed     Emotion = "ashamed"
	EmotionNumb        Emotion = "numb"
	EmotionConfused    Emotion = "confused"
	EmotionInsecure    Emotion = "insecure"
	EmotionHurt        Emotion = "hurt"
	EmotionMotivated   Emotion = "motivated"
	EmotionRelieved    Emotion = "relieved"
	EmotionDistressed  Emotion = "distressed"
)

// FallbackEmotion is the neutral catch-all for unrecognized primary emotions.
const FallbackEmotion = EmotionConfused

// Emotions lists the closed emotion vocabulary in extraction-prompt order.
var Emotions = []Emotion{
	EmotionCalm, EmotionContent, EmotionHopeful, EmotionGrateful, EmotionJoyful, EmotionExcited,
	EmotionTired, EmotionOverwhelmed, EmotionStressed, EmotionUneasy, EmotionAnxiousLike,
	EmotionSad, EmotionHeavy, EmotionLonely, EmotionFrustrated, EmotionAngry, EmotionGuilty,
	EmotionAshamed, EmotionNumb, EmotionConfused, EmotionInsecure, EmotionHurt,
	EmotionMotivated, EmotionRelieved, EmotionDistressed,
}

// Intensity is the closed intensity vocabulary produced by the normalizer.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// FallbackIntensity replaces unrecognized intensities.
const FallbackIntensity = IntensityMedium

// Intensities lists the closed intensity vocabulary.
var Intensities = []Intensity{IntensityLow, IntensityMedium, IntensityHigh}

// Context is the life area a signal relates to.
type Context string

const (
	ContextWork          Context = "work"
	ContextRelationships Context = "relationships"
	ContextFamily        Context = "family"
	ContextFriends       Context = "friends"
	ContextSelf          Context = "self"
	ContextHealth        Context = "health"
	ContextMoney         Context = "money"
	ContextFuture        Context = "future"
	ContextIdentity      Context = "identity"
	ContextStudy         Context = "study"
	ContextSocial        Context = "social"
	ContextRoutine       Context = "routine"
	ContextSleep         Context = "sleep"
	ContextBody          Context = "body"
	ContextSafety        Context = "safety"
	ContextOther         Context = "other"
)

// FallbackContext replaces unrecognized contexts.
const FallbackContext = ContextOther

// Contexts lists the closed context vocabulary.
var Contexts = []Context{
	ContextWork, ContextRelationships, ContextFamily, ContextFriends, ContextSelf,
	ContextHealth, ContextMoney, ContextFuture, ContextIdentity, ContextStudy, ContextSocial,
	ContextRoutine, ContextSleep, ContextBody, ContextSafety, ContextOther,
}

// TimeBucket is the coarse time of day a signal was recorded in.
type TimeBucket string

const (
	TimeMorning   TimeBucket = "morning"
	TimeAfternoon TimeBucket = "afternoon"
	TimeEvening   TimeBucket = "evening"
	TimeNight     TimeBucket = "night"
)

// TimeBuckets lists the closed time bucket vocabulary.
var TimeBuckets = []TimeBucket{TimeMorning, TimeAfternoon, TimeEvening, TimeNight}

// Valid reports whether e is a member of the emotion vocabulary.
func (e Emotion) Valid() bool {
	for _, v := range Emotions {
		if v == e {
			return true
		}
	}
	return false
}

// Valid reports whether i is a member of the intensity vocabulary.
func (i Intensity) Valid() bool {
	for _, v := range Intensities {
		if v == i {
			return true
		}
	}
	return false
}

// Valid reports whether c is a member of the context vocabulary.
func (c Context) Valid() bool {
	for _, v := range Contexts {
		if v == c {
			return true
		}
	}
	return false
}

// Valid reports whether b is a member of the time bucket vocabulary.
func (b TimeBucket) Valid() bool {
	for _, v := range TimeBuckets {
		if v == b {
			return true
		}
	}
	return false
}

// Signal is one normalized emotional reading derived from a single user message.
// Signals are append-only: they are never updated after insert.
type Signal struct {
	ID               string     `json:"id" db:"id"`
	UserID           string     `json:"user_id" db:"user_id"`
	MessageID        string     `json:"message_id,omitempty" db:"message_id"`
	PrimaryEmotion   Emotion    `json:"primary_emotion" db:"primary_emotion"`
	SecondaryEmotion *Emotion   `json:"secondary_emotion" db:"secondary_emotion"`
	Intensity        Intensity  `json:"intensity" db:"intensity"`
	Context          Context    `json:"context" db:"context"`
	TimeBucket       TimeBucket `json:"time_bucket" db:"time_bucket"`
	Confidence       float64    `json:"confidence" db:"confidence"`
	SafeSummary      string     `json:"safe_summary" db:"safe_summary"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}
