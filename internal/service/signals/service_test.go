package signals

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/llm"
)

// mockRepo is an in-memory repository for testing.
type mockRepo struct {
	mu     sync.RWMutex
	store  []domain.Signal
	failOn error
}

func (m *mockRepo) Append(_ context.Context, s *domain.Signal) error {
	if m.failOn != nil {
		return m.failOn
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = append(m.store, *s)
	return nil
}

func (m *mockRepo) ListSince(_ context.Context, userID string, since time.Time, limit int) ([]domain.Signal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Signal
	for _, s := range m.store {
		if s.UserID == userID && !s.CreatedAt.Before(since) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// stubCompleter returns a canned completion.
type stubCompleter struct {
	out string
	err error
}

func (s stubCompleter) Complete(context.Context, llm.Request) (string, error) { return s.out, s.err }

func (s stubCompleter) Stream(context.Context, llm.Request) (<-chan string, <-chan error) {
	tokens := make(chan string)
	errc := make(chan error, 1)
	close(tokens)
	close(errc)
	return tokens, errc
}

var fixedNow = time.Date(2026, 5, 4, 14, 0, 0, 0, time.UTC) // 19:30 IST

func TestRecord_StoresNormalizedSignal(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, WithClock(func() time.Time { return fixedNow }))

	sig := svc.Record(context.Background(), "user-1", "msg-1", RawExtraction{PrimaryEmotion: "tired", Context: "work"})

	if sig.PrimaryEmotion != domain.EmotionTired {
		t.Errorf("expected tired, got %s", sig.PrimaryEmotion)
	}
	if sig.TimeBucket != domain.TimeEvening {
		t.Errorf("expected evening fallback bucket from IST clock, got %s", sig.TimeBucket)
	}
	if sig.ID == "" || sig.UserID != "user-1" || sig.MessageID != "msg-1" {
		t.Errorf("identity fields not stamped: %+v", sig)
	}
	if !sig.CreatedAt.Equal(fixedNow) {
		t.Errorf("expected created_at %v, got %v", fixedNow, sig.CreatedAt)
	}
	if len(repo.store) != 1 {
		t.Fatalf("expected 1 stored signal, got %d", len(repo.store))
	}
}

func TestRecord_StoreFailureStillReturnsSignal(t *testing.T) {
	repo := &mockRepo{failOn: errors.New("db down")}
	svc := NewService(repo)

	sig := svc.Record(context.Background(), "user-1", "msg-1", RawExtraction{PrimaryEmotion: "calm"})
	if sig.PrimaryEmotion != domain.EmotionCalm {
		t.Errorf("expected calm, got %s", sig.PrimaryEmotion)
	}
}

func TestRecord_AnonymousIsNotStored(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	svc.Record(context.Background(), "", "msg-1", RawExtraction{PrimaryEmotion: "calm"})
	if len(repo.store) != 0 {
		t.Errorf("expected no stored signals for anonymous user, got %d", len(repo.store))
	}
}

func TestRecord_UsesConfiguredLocation(t *testing.T) {
	svc := NewService(&mockRepo{}, WithClock(func() time.Time { return fixedNow }), WithLocation(time.UTC))

	sig := svc.Record(context.Background(), "u", "", RawExtraction{})
	if sig.TimeBucket != domain.TimeAfternoon {
		t.Errorf("expected afternoon in UTC, got %s", sig.TimeBucket)
	}
}

func TestAnalyze_ExtractsAndRecords(t *testing.T) {
	repo := &mockRepo{}
	ext := NewExtractor(stubCompleter{out: "```json\n{\"primary_emotion\":\"overwhelmed\",\"secondary_emotion\":\"\",\"intensity\":\"high\",\"context\":\"study\",\"time_bucket\":\"night\",\"confidence\":0.8,\"safe_summary\":\"Exams piling up\"}\n```"})
	svc := NewService(repo, WithExtractor(ext))

	sig, err := svc.Analyze(context.Background(), "user-1", "msg-9", "I have three exams tomorrow and I can't breathe")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if sig.PrimaryEmotion != domain.EmotionOverwhelmed || sig.Context != domain.ContextStudy {
		t.Errorf("unexpected signal: %+v", sig)
	}
	if sig.SecondaryEmotion != nil {
		t.Errorf("expected no secondary emotion, got %v", *sig.SecondaryEmotion)
	}
	if len(repo.store) != 1 {
		t.Errorf("expected 1 stored signal, got %d", len(repo.store))
	}
}

func TestAnalyze_BadJSON(t *testing.T) {
	svc := NewService(&mockRepo{}, WithExtractor(NewExtractor(stubCompleter{out: "I'd say sad"})))

	_, err := svc.Analyze(context.Background(), "user-1", "m", "hello there")
	if !errors.Is(err, ErrBadExtraction) {
		t.Errorf("expected ErrBadExtraction, got %v", err)
	}
}

func TestAnalyze_CompletionFailure(t *testing.T) {
	svc := NewService(&mockRepo{}, WithExtractor(NewExtractor(stubCompleter{err: llm.ErrRateLimited})))

	_, err := svc.Analyze(context.Background(), "user-1", "m", "hello there")
	if !errors.Is(err, llm.ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}

func TestAnalyze_Guards(t *testing.T) {
	if _, err := NewService(&mockRepo{}).Analyze(context.Background(), "u", "m", "x"); !errors.Is(err, ErrNoExtractor) {
		t.Errorf("expected ErrNoExtractor, got %v", err)
	}
	svc := NewService(&mockRepo{}, WithExtractor(NewExtractor(stubCompleter{})))
	if _, err := svc.Analyze(context.Background(), "", "m", "x"); !errors.Is(err, ErrUserRequired) {
		t.Errorf("expected ErrUserRequired, got %v", err)
	}
	if _, err := svc.Analyze(context.Background(), "u", "m", "   "); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}

func TestExtractionPrompt_ListsVocabularies(t *testing.T) {
	for _, want := range []string{"anxious_like", "relationships", "afternoon", "PTSD", "distressed"} {
		if !strings.Contains(extractionPrompt, want) {
			t.Errorf("extraction prompt missing %q", want)
		}
	}
}

func TestRecent(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, WithClock(func() time.Time { return fixedNow }))
	repo.store = []domain.Signal{
		{UserID: "u", CreatedAt: fixedNow.Add(-2 * time.Hour)},
		{UserID: "u", CreatedAt: fixedNow.Add(-30 * 24 * time.Hour)},
		{UserID: "u", CreatedAt: fixedNow.Add(-1 * time.Hour)},
	}

	got, err := svc.Recent(context.Background(), "u", 14*24*time.Hour, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0].CreatedAt.Before(got[1].CreatedAt) {
		t.Errorf("expected 2 newest-first signals, got %+v", got)
	}
}
