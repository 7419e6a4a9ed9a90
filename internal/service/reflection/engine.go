package reflection

import (
	"context"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/pkg/logger"
	"github.com/mendapp/mend/internal/pkg/render"
	"github.com/mendapp/mend/internal/service/intent"
	"github.com/mendapp/mend/internal/service/pattern"
)

// SignalReader is the read side of the signal store.
type SignalReader interface {
	ListSince(ctx context.Context, userID string, since time.Time, limit int) ([]domain.Signal, error)
}

// Config holds the engine thresholds.
type Config struct {
	// MinMessageGap is how many messages must separate two signal queries.
	MinMessageGap int
	// MinUserMessages is the number of user turns required in the session.
	MinUserMessages int
	// CrisisLookback is how many trailing messages are scanned for crisis language.
	CrisisLookback int
	// Window and Limit bound the signal query.
	Window time.Duration
	Limit  int
	// Week splits the window into recent and prior signals.
	Week time.Duration
	// MinRecentSignals is required inside Week.
	MinRecentSignals int
	// Repeat is the count at which an emotion or context is recurring.
	Repeat int
	// EscalationDelta is the mean intensity rise that counts as escalation.
	EscalationDelta float64
	// MinPriorSignals is required before escalation is considered.
	MinPriorSignals int
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		MinMessageGap:    3,
		MinUserMessages:  3,
		CrisisLookback:   3,
		Window:           14 * 24 * time.Hour,
		Limit:            50,
		Week:             7 * 24 * time.Hour,
		MinRecentSignals: 3,
		Repeat:           3,
		EscalationDelta:  0.5,
		MinPriorSignals:  2,
	}
}

// Engine evaluates reflection gates and renders triggers. It is safe for
// concurrent use; each Session serializes its own evaluations.
type Engine struct {
	signals  SignalReader
	throttle Throttle
	tpl      *render.Engine
	cfg      Config
	now      func() time.Time
	pick     func(n int) int
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithPicker overrides the random choice between template variants.
func WithPicker(pick func(n int) int) Option {
	return func(e *Engine) { e.pick = pick }
}

// NewEngine creates an engine. A nil throttle uses a MemoryThrottle with
// default settings.
func NewEngine(signals SignalReader, throttle Throttle, opts ...Option) *Engine {
	if throttle == nil {
		throttle = NewMemoryThrottle(ThrottleConfig{})
	}
	e := &Engine{
		signals:  signals,
		throttle: throttle,
		tpl:      render.New(),
		cfg:      DefaultConfig(),
		now:      time.Now,
		pick:     rand.IntN,
	}
	for _, opt := range opts {
		opt(e)
	}
	compileTemplates(e.tpl)
	return e
}

// Evaluate runs the gates for one turn and returns the trigger that fired,
// or nil. lastAssistantIndex is the index in msgs of the reply just shown.
// clientID keys the throttle; when empty the user id is used.
func (e *Engine) Evaluate(ctx context.Context, sess *Session, clientID, userID string, msgs []domain.Message, lastAssistantIndex int) *domain.ReflectionTrigger {
	if sess == nil {
		return nil
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state != StateIdle {
		return closed("already_fired")
	}
	if userID == "" {
		return closed("anonymous")
	}
	if clientID == "" {
		clientID = userID
	}

	now := e.now()
	blocked, err := e.throttle.Blocked(ctx, clientID, now)
	if err != nil {
		logger.Warn("reflection throttle unavailable", "client_id", clientID, "error", err)
		blocked = false
	}
	if blocked {
		return closed("throttled")
	}

	if lastAssistantIndex-sess.lastAttemptIndex < e.cfg.MinMessageGap {
		return closed("message_gap")
	}
	if intent.RecentCrisis(msgs, e.cfg.CrisisLookback) {
		return closed("crisis")
	}
	if domain.CountUserMessages(msgs) < e.cfg.MinUserMessages {
		return closed("too_few_turns")
	}
	if !intent.ClassifyLatest(msgs).Invites() {
		return closed("not_receptive")
	}

	// Only turns that reach the signal query count as attempts.
	sess.lastAttemptIndex = lastAssistantIndex
	sigs, err := e.signals.ListSince(ctx, userID, now.Add(-e.cfg.Window), e.cfg.Limit)
	if err != nil {
		logger.Warn("reflection signal query failed", "user_id", userID, "error", err)
		return nil
	}
	trigger := e.selectTrigger(sigs, now)
	if trigger == nil {
		return closed("no_pattern")
	}

	sess.state = StateFired
	sess.trigger = trigger
	if err := e.throttle.RecordFire(ctx, clientID, now); err != nil {
		logger.Warn("reflection cooldown not recorded", "client_id", clientID, "error", err)
	}
	logger.Info("reflection fired", "user_id", userID, "type", string(trigger.Type))
	return trigger
}

// SuppressToday dismisses the session's reflection and blocks further ones
// for the client until the end of the calendar day.
func (e *Engine) SuppressToday(ctx context.Context, sess *Session, clientID string) error {
	if sess == nil {
		return ErrSessionRequired
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.state == StateIdle {
		return ErrNotFired
	}
	sess.state = StateSuppressed
	if err := e.throttle.SuppressDay(ctx, clientID, e.now()); err != nil {
		logger.Warn("reflection suppress flag not stored", "client_id", clientID, "error", err)
	}
	return nil
}

// ResetSession returns the session to Idle. Throttle state is untouched.
func (e *Engine) ResetSession(sess *Session) {
	if sess == nil {
		return
	}
	sess.mu.Lock()
	sess.reset()
	sess.mu.Unlock()
}

func closed(gate string) *domain.ReflectionTrigger {
	logger.Debug("reflection gate closed", "gate", gate)
	return nil
}

func (e *Engine) selectTrigger(sigs []domain.Signal, now time.Time) *domain.ReflectionTrigger {
	if len(sigs) < e.cfg.MinRecentSignals {
		return nil
	}
	weekStart := now.Add(-e.cfg.Week)
	var recent, prior []domain.Signal
	for _, s := range sigs {
		if s.CreatedAt.IsZero() {
			continue
		}
		if s.CreatedAt.Before(weekStart) {
			prior = append(prior, s)
		} else {
			recent = append(recent, s)
		}
	}
	if len(recent) < e.cfg.MinRecentSignals {
		return nil
	}

	if emotion, ok := firstRepeated(recent, func(s domain.Signal) domain.Emotion { return s.PrimaryEmotion }, e.cfg.Repeat); ok {
		return e.render(domain.TriggerEmotion, map[string]interface{}{"emotion": pattern.SoftLabel(emotion)})
	}
	if theme, ok := firstRepeated(recent, func(s domain.Signal) domain.Context { return s.Context }, e.cfg.Repeat); ok {
		return e.render(domain.TriggerContext, map[string]interface{}{"context": pattern.ContextPhrase(theme)})
	}
	if len(prior) >= e.cfg.MinPriorSignals && meanIntensity(recent) > meanIntensity(prior)+e.cfg.EscalationDelta {
		emotion, _ := firstRepeated(recent, func(s domain.Signal) domain.Emotion { return s.PrimaryEmotion }, 1)
		return e.render(domain.TriggerEscalation, map[string]interface{}{"emotion": pattern.SoftLabel(emotion)})
	}
	if emotion, buckets, ok := spreadAcrossBuckets(recent); ok {
		return e.render(domain.TriggerTimeBucket, map[string]interface{}{
			"emotion":       pattern.SoftLabel(emotion),
			"first_bucket":  string(buckets[0]),
			"second_bucket": string(buckets[1]),
		})
	}
	return nil
}

func (e *Engine) render(typ domain.TriggerType, vars map[string]interface{}) *domain.ReflectionTrigger {
	variants := templates[typ]
	key := templateKey(typ, e.pick(len(variants)))
	msg, err := e.tpl.Render(key, vars)
	if err != nil {
		logger.Error("reflection render failed", "template", key, "error", err)
		return nil
	}
	return &domain.ReflectionTrigger{Type: typ, Message: msg}
}

// firstRepeated returns the first value, in input order, whose count reaches
// threshold. Input is newest first, so the most recently seen value wins ties.
func firstRepeated[T comparable](sigs []domain.Signal, key func(domain.Signal) T, threshold int) (T, bool) {
	counts := make(map[T]int)
	var order []T
	for _, s := range sigs {
		k := key(s)
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	for _, k := range order {
		if counts[k] >= threshold {
			return k, true
		}
	}
	var zero T
	return zero, false
}

// spreadAcrossBuckets finds the first emotion seen in at least two distinct
// time buckets and returns the first two buckets it appeared in.
func spreadAcrossBuckets(sigs []domain.Signal) (domain.Emotion, []domain.TimeBucket, bool) {
	seen := make(map[domain.Emotion][]domain.TimeBucket)
	var order []domain.Emotion
	for _, s := range sigs {
		buckets, ok := seen[s.PrimaryEmotion]
		if !ok {
			order = append(order, s.PrimaryEmotion)
		}
		if !slices.Contains(buckets, s.TimeBucket) {
			seen[s.PrimaryEmotion] = append(buckets, s.TimeBucket)
		}
	}
	for _, e := range order {
		if len(seen[e]) >= 2 {
			return e, seen[e][:2], true
		}
	}
	return "", nil, false
}

func meanIntensity(sigs []domain.Signal) float64 {
	if len(sigs) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sigs {
		sum += pattern.IntensityOrDefault(string(s.Intensity))
	}
	return sum / float64(len(sigs))
}
