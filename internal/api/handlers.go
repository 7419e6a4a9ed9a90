package api

import (
	"context"
	"net/http"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/pkg/httputil"
	"github.com/mendapp/mend/internal/service/compose"
	"github.com/mendapp/mend/internal/service/pattern"
	"github.com/mendapp/mend/internal/service/reflection"
	"github.com/mendapp/mend/internal/service/signals"
)

// Composer answers a chat turn.
type Composer interface {
	Compose(ctx context.Context, req compose.Request) (*compose.Reply, error)
}

// SignalRecorder stores emotional signals.
type SignalRecorder interface {
	Record(ctx context.Context, userID, messageID string, raw signals.RawExtraction) domain.Signal
	Analyze(ctx context.Context, userID, messageID, content string) (domain.Signal, error)
}

// PatternReader serves aggregated views of a user's signals.
type PatternReader interface {
	Snapshot(ctx context.Context, userID string) (domain.PatternSnapshot, error)
	Insights(ctx context.Context, userID string) (pattern.InsightView, error)
	Phase(ctx context.Context, userID string) (domain.UserPhase, error)
	Invalidate(ctx context.Context, userID string)
}

// ModeStore reads and writes the user's companion mode.
type ModeStore interface {
	Mode(ctx context.Context, userID string) domain.Mode
	SetMode(ctx context.Context, userID, mode string) (*domain.ModePreference, error)
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Composer   Composer
	Signals    SignalRecorder
	Patterns   PatternReader
	Reflection *reflection.Engine
	Sessions   *reflection.Sessions
	Modes      ModeStore
	Health     *HealthChecker
}

// Handlers contains all HTTP handlers
type Handlers struct {
	composer   Composer
	signals    SignalRecorder
	patterns   PatternReader
	reflection *reflection.Engine
	sessions   *reflection.Sessions
	modes      ModeStore
	health     *HealthChecker
}

// NewHandlers creates a new Handlers instance
func NewHandlers(d Deps) *Handlers {
	if d.Health == nil {
		d.Health = NewHealthChecker(HealthDeps{})
	}
	if d.Sessions == nil {
		d.Sessions = reflection.NewSessions(0)
	}
	return &Handlers{
		composer:   d.Composer,
		signals:    d.Signals,
		patterns:   d.Patterns,
		reflection: d.Reflection,
		sessions:   d.Sessions,
		modes:      d.Modes,
		health:     d.Health,
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	httputil.JSON(w, status, data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	httputil.Error(w, status, message)
}
