package compose

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/llm"
)

var fixedNow = time.Date(2026, 6, 15, 18, 0, 0, 0, time.UTC)

// scriptedCompleter answers Complete calls in order and streams a fixed
// token list.
type scriptedCompleter struct {
	mu        sync.Mutex
	completes []string
	errs      []error
	calls     []llm.Request

	tokens    []string
	streamErr error
	// block holds the stream after the first token until ctx is done.
	block   bool
	streams []llm.Request
}

func (s *scriptedCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := len(s.calls)
	s.calls = append(s.calls, req)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.completes) {
		return s.completes[i], nil
	}
	return "", errors.New("unexpected completion")
}

func (s *scriptedCompleter) Stream(ctx context.Context, req llm.Request) (<-chan string, <-chan error) {
	s.mu.Lock()
	s.streams = append(s.streams, req)
	tokens := append([]string(nil), s.tokens...)
	streamErr, block := s.streamErr, s.block
	s.mu.Unlock()

	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for i, tok := range tokens {
			select {
			case out <- tok:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
			if block && i == 0 {
				<-ctx.Done()
				errc <- ctx.Err()
				return
			}
		}
		if streamErr != nil {
			errc <- streamErr
		}
	}()
	return out, errc
}

func (s *scriptedCompleter) completeCalls() []llm.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Request(nil), s.calls...)
}

type memorySnapshots struct {
	mu    sync.Mutex
	items map[string]domain.ConversationSnapshot
	puts  int
	err   error
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{items: make(map[string]domain.ConversationSnapshot)}
}

func (m *memorySnapshots) Get(_ context.Context, userID string) (*domain.ConversationSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.items[userID]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return &s, nil
}

func (m *memorySnapshots) Put(_ context.Context, snap *domain.ConversationSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	m.items[snap.UserID] = *snap
	return nil
}

func (m *memorySnapshots) get(userID string) (domain.ConversationSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[userID]
	return s, ok
}

type staticStates struct {
	state *domain.UserState
	err   error
}

func (s staticStates) UserState(context.Context, string) (*domain.UserState, error) {
	return s.state, s.err
}

func turn(latest string) []domain.Message {
	return []domain.Message{
		{Role: domain.RoleUser, Content: "Hi"},
		{Role: domain.RoleAssistant, Content: "Hi. What's on your mind tonight?"},
		{Role: domain.RoleUser, Content: latest},
	}
}

func drain(r *Reply) (string, error) {
	var text string
	for tok := range r.Tokens {
		text += tok
	}
	return text, <-r.Errs
}
