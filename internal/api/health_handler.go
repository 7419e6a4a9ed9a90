package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Check states, best to worst.
const (
	CheckOff      = "off"
	CheckUp       = "up"
	CheckDegraded = "degraded"
	CheckDown     = "down"
)

// Overall states.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthDeps are the collaborators the health endpoints report on. Zero
// values mean the collaborator is not part of this deployment.
type HealthDeps struct {
	DB *sql.DB
	// Redis is the live client, nil when Redis was never connected.
	Redis *redis.Client
	// RedisWanted is true when the config asked for Redis, so a nil or
	// failing client means the memory fallbacks are serving.
	RedisWanted bool
	// Provider names the completion backend, e.g. "openai/gpt-4o-mini".
	Provider string
	// ProviderReady is false when the backend has no credentials.
	ProviderReady bool
}

// ComponentCheck is the state of one collaborator.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status string                    `json:"status"`
	Uptime string                    `json:"uptime"`
	Checks map[string]ComponentCheck `json:"checks"`
}

// HealthChecker serves the health, liveness and readiness endpoints.
type HealthChecker struct {
	deps    HealthDeps
	started time.Time
}

// NewHealthChecker creates a HealthChecker.
func NewHealthChecker(deps HealthDeps) *HealthChecker {
	return &HealthChecker{deps: deps, started: time.Now()}
}

// HandleHealth always answers 200; the body carries the verdict.
//
//	GET /health
func (hc *HealthChecker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks := hc.check(r.Context())
	respondJSON(w, http.StatusOK, HealthStatus{
		Status: overall(checks),
		Uptime: time.Since(hc.started).Round(time.Second).String(),
		Checks: checks,
	})
}

// HandleLiveness answers 200 while the process serves requests.
//
//	GET /health/live
func (hc *HealthChecker) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HandleReadiness answers 503 only when chat turns cannot be served. A
// degraded Redis keeps the service ready on its memory fallbacks.
//
//	GET /health/ready
func (hc *HealthChecker) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := hc.check(r.Context())
	status := overall(checks)
	code := http.StatusOK
	if status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, map[string]interface{}{
		"ready":  code == http.StatusOK,
		"status": status,
		"checks": checks,
	})
}

func (hc *HealthChecker) check(ctx context.Context) map[string]ComponentCheck {
	type result struct {
		name  string
		check ComponentCheck
	}
	ch := make(chan result, 2)
	go func() { ch <- result{"database", hc.checkDatabase(ctx)} }()
	go func() { ch <- result{"redis", hc.checkRedis(ctx)} }()

	checks := map[string]ComponentCheck{"completer": hc.checkCompleter()}
	for i := 0; i < 2; i++ {
		r := <-ch
		checks[r.name] = r.check
	}
	return checks
}

func (hc *HealthChecker) checkDatabase(ctx context.Context) ComponentCheck {
	if hc.deps.DB == nil {
		return ComponentCheck{Status: CheckOff}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	start := time.Now()
	err := hc.deps.DB.PingContext(ctx)
	c := ComponentCheck{Status: CheckUp, Latency: time.Since(start).String()}
	switch {
	case err != nil:
		c.Status, c.Message = CheckDown, fmt.Sprintf("ping failed: %v", err)
	case time.Since(start) > time.Second:
		c.Status, c.Message = CheckDegraded, "slow ping"
	}
	return c
}

func (hc *HealthChecker) checkRedis(ctx context.Context) ComponentCheck {
	if !hc.deps.RedisWanted {
		return ComponentCheck{Status: CheckOff, Message: "memory cache and throttle"}
	}
	if hc.deps.Redis == nil {
		return ComponentCheck{Status: CheckDegraded, Message: "unreachable at startup; memory cache and throttle serving"}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := hc.deps.Redis.Ping(ctx).Err()
	c := ComponentCheck{Status: CheckUp, Latency: time.Since(start).String()}
	if err != nil {
		c.Status, c.Message = CheckDegraded, fmt.Sprintf("ping failed: %v; cache misses and throttle reads fail open", err)
	}
	return c
}

func (hc *HealthChecker) checkCompleter() ComponentCheck {
	switch {
	case hc.deps.Provider == "":
		return ComponentCheck{Status: CheckOff}
	case !hc.deps.ProviderReady:
		return ComponentCheck{Status: CheckDown, Message: hc.deps.Provider + " has no credentials"}
	default:
		return ComponentCheck{Status: CheckUp, Message: hc.deps.Provider}
	}
}

// overall is unhealthy when any configured collaborator is down and
// degraded when any is degraded.
func overall(checks map[string]ComponentCheck) string {
	status := StatusHealthy
	for _, c := range checks {
		switch c.Status {
		case CheckDown:
			return StatusUnhealthy
		case CheckDegraded:
			status = StatusDegraded
		}
	}
	return status
}
