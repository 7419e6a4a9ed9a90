package compose

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/llm"
	"github.com/mendapp/mend/internal/pkg/logger"
	"github.com/mendapp/mend/internal/service/bucket"
)

// Config holds generation and validation settings.
type Config struct {
	DraftMaxTokens   int
	RewriteMaxTokens int
	SummaryMaxTokens int
	Temperature      float64
	// PromptWordLimit is the length asked of the model; Rubric.WordCeiling
	// is what is measured.
	PromptWordLimit int
	// HistoryLimit caps how many trailing messages are sent upstream.
	HistoryLimit   int
	SummaryTimeout time.Duration
	Rubric         Rubric
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		DraftMaxTokens:   400,
		RewriteMaxTokens: 400,
		SummaryMaxTokens: 200,
		Temperature:      0.7,
		PromptWordLimit:  120,
		HistoryLimit:     20,
		SummaryTimeout:   20 * time.Second,
		Rubric:           DefaultRubric(),
	}
}

// Request is one turn to answer.
type Request struct {
	Messages []domain.Message
	Mode     domain.Mode
	// UserID is optional. Without it no user state or snapshot is read or
	// written.
	UserID string
}

// Reply is a composed turn. Tokens is closed when the stream ends; Errs
// receives at most one mid-stream failure and is then closed. Callers must
// drain Tokens or cancel the context passed to Compose.
type Reply struct {
	Bucket domain.Bucket
	Tokens <-chan string
	Errs   <-chan error
}

// Composer runs the two-pass reply pipeline.
type Composer struct {
	llm       llm.Completer
	buckets   *bucket.Classifier
	states    StateSource
	snapshots SnapshotRepository
	summary   *llm.Schema
	cfg       Config
	pick      func(n int) int
	now       func() time.Time

	wg sync.WaitGroup
}

// Option configures a Composer.
type Option func(*Composer)

// WithStates supplies narrative hints from aggregated user state.
func WithStates(s StateSource) Option {
	return func(c *Composer) { c.states = s }
}

// WithSnapshots enables the rolling conversation summary.
func WithSnapshots(r SnapshotRepository) Option {
	return func(c *Composer) { c.snapshots = r }
}

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(c *Composer) { c.cfg = cfg }
}

// WithPicker overrides the random choice of variation opener.
func WithPicker(pick func(n int) int) Option {
	return func(c *Composer) { c.pick = pick }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// NewComposer creates a Composer. A nil classifier uses default weights.
func NewComposer(completer llm.Completer, classifier *bucket.Classifier, opts ...Option) (*Composer, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if classifier == nil {
		classifier = bucket.NewClassifier(bucket.DefaultWeights())
	}
	c := &Composer{
		llm:     completer,
		buckets: classifier,
		summary: llm.SchemaFor[summaryOutput]("conversation_summary", "Rolling summary of a reflective conversation"),
		cfg:     DefaultConfig(),
		pick:    rand.IntN,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Compose classifies the turn, drafts a reply, and starts streaming the
// rewrite. Errors from either pass before the first streamed token are
// returned directly and keep their llm sentinel.
func (c *Composer) Compose(ctx context.Context, req Request) (*Reply, error) {
	latest := domain.LastUserMessage(req.Messages)
	if strings.TrimSpace(latest) == "" {
		return nil, ErrNoUserMessage
	}
	mode, _ := bucket.ParseMode(string(req.Mode))
	b := c.buckets.Classify(latest, mode)
	logger.Info("composing reply", "mode", string(mode), "bucket", string(b), "user_id", req.UserID)

	state, prior := c.loadContext(ctx, req.UserID)
	history := c.history(req.Messages)

	draft, err := c.llm.Complete(ctx, llm.Request{
		System: draftSystem(draftInput{
			mode:      mode,
			bucket:    b,
			state:     state,
			snapshot:  prior,
			opener:    VariationOpeners[c.pick(len(VariationOpeners))],
			wordLimit: c.cfg.PromptWordLimit,
			hedges:    c.cfg.Rubric.Hedges,
		}),
		Messages:    history,
		MaxTokens:   c.cfg.DraftMaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("draft: %w", err)
	}
	if strings.TrimSpace(draft) == "" {
		return nil, fmt.Errorf("draft: %w", llm.ErrEmptyResponse)
	}
	logReport("draft", b, c.cfg.Rubric.Validate(draft))

	tokens, errc := c.llm.Stream(ctx, llm.Request{
		System:      rewriteSystem(mode, b, draft, latest, c.cfg.PromptWordLimit, c.cfg.Rubric.Hedges),
		Messages:    history,
		MaxTokens:   c.cfg.RewriteMaxTokens,
		Temperature: c.cfg.Temperature,
	})
	first, err := awaitFirst(ctx, tokens, errc)
	if err != nil {
		return nil, fmt.Errorf("rewrite: %w", err)
	}

	out := make(chan string, 16)
	outErr := make(chan error, 1)
	go c.relay(ctx, relayTurn{bucket: b, userID: req.UserID, latest: latest, prior: prior}, first, tokens, errc, out, outErr)

	return &Reply{Bucket: b, Tokens: out, Errs: outErr}, nil
}

// Wait blocks until detached summary tasks have finished.
func (c *Composer) Wait() {
	c.wg.Wait()
}

// loadContext reads optional enrichment. Failures are logged and skipped.
func (c *Composer) loadContext(ctx context.Context, userID string) (*domain.UserState, *domain.ConversationSnapshot) {
	if userID == "" {
		return nil, nil
	}
	var state *domain.UserState
	if c.states != nil {
		s, err := c.states.UserState(ctx, userID)
		if err != nil {
			logger.Warn("user state unavailable", "user_id", userID, "error", err)
		} else {
			state = s
		}
	}
	var snap *domain.ConversationSnapshot
	if c.snapshots != nil {
		s, err := c.snapshots.Get(ctx, userID)
		switch {
		case errors.Is(err, ErrSnapshotNotFound):
		case err != nil:
			logger.Warn("conversation snapshot unavailable", "user_id", userID, "error", err)
		default:
			snap = s
		}
	}
	return state, snap
}

func (c *Composer) history(msgs []domain.Message) []llm.Message {
	if c.cfg.HistoryLimit > 0 && len(msgs) > c.cfg.HistoryLimit {
		msgs = msgs[len(msgs)-c.cfg.HistoryLimit:]
	}
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		role := llm.RoleUser
		if m.Role == domain.RoleAssistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}
	return out
}

// awaitFirst blocks until the stream produces text, fails, or ends empty.
func awaitFirst(ctx context.Context, tokens <-chan string, errc <-chan error) (string, error) {
	for {
		select {
		case tok, ok := <-tokens:
			if !ok {
				if err := <-errc; err != nil {
					return "", err
				}
				return "", llm.ErrEmptyResponse
			}
			if tok != "" {
				return tok, nil
			}
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

type relayTurn struct {
	bucket domain.Bucket
	userID string
	latest string
	prior  *domain.ConversationSnapshot
}

func (c *Composer) relay(ctx context.Context, t relayTurn, first string, tokens <-chan string, errc <-chan error, out chan<- string, outErr chan<- error) {
	defer close(out)
	defer close(outErr)

	var reply strings.Builder
	send := func(tok string) bool {
		reply.WriteString(tok)
		select {
		case out <- tok:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !send(first) {
		logger.Info("reply abandoned by caller", "user_id", t.userID)
		return
	}
	for tok := range tokens {
		if !send(tok) {
			logger.Info("reply abandoned by caller", "user_id", t.userID)
			return
		}
	}
	if err := <-errc; err != nil {
		logger.Warn("reply stream failed", "user_id", t.userID, "error", err)
		outErr <- err
		return
	}

	text := reply.String()
	logReport("reply", t.bucket, c.cfg.Rubric.Validate(text))
	c.refreshSnapshot(t, text)
}

func logReport(stage string, b domain.Bucket, rep Report) {
	kv := []interface{}{
		"stage", stage,
		"bucket", string(b),
		"verdict", string(rep.Verdict()),
		"words", rep.Words,
		"questions", rep.Questions,
		"paragraphs", rep.Paragraphs,
	}
	if len(rep.Hedges) > 0 {
		kv = append(kv, "hedges", strings.Join(rep.Hedges, "|"))
	}
	if rep.Verdict() == Pass {
		logger.Debug("rubric", kv...)
		return
	}
	logger.Warn("rubric", kv...)
}
