package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	pkgerrors "github.com/angelmondragon/casecraft-backend/pkg/errors"
	"github.com/angelmondragon/casecraft-backend/pkg/logger"
	"github.com/angelmondragon/casecraft-backend/pkg/metrics"
)

// Factory builds a fresh engine for the registry.
type Factory func(id string) (*Engine, error)

// RegistryConfig bounds the in-memory session set.
type RegistryConfig struct {
	IdleTTL     time.Duration
	MaxSessions int
}

// Registry holds live sessions in memory. Sessions are lost on restart.
type Registry struct {
	factory Factory
	cfg     RegistryConfig
	logg    *logger.Logger
	metrics *metrics.SessionMetrics
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Engine
}

// NewRegistry builds an empty registry.
func NewRegistry(factory Factory, cfg RegistryConfig, logg *logger.Logger, m *metrics.SessionMetrics) (*Registry, error) {
	if factory == nil {
		return nil, fmt.Errorf("session factory is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Registry{
		factory:  factory,
		cfg:      cfg,
		logg:     logg,
		metrics:  m,
		now:      time.Now,
		sessions: map[string]*Engine{},
	}, nil
}

// Create starts a new session. When the registry is full, idle sessions are
// swept first; if it is still full the call fails with a rate limit error.
func (r *Registry) Create(ctx context.Context) (*Engine, error) {
	if r.full() {
		r.Sweep(ctx)
	}

	engine, err := r.factory("")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create session")
	}

	r.mu.Lock()
	if r.cfg.MaxSessions > 0 && len(r.sessions) >= r.cfg.MaxSessions {
		r.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "too many active sessions")
	}
	r.sessions[engine.ID()] = engine
	count := len(r.sessions)
	r.mu.Unlock()

	r.metrics.SetActiveSessions(count)
	r.logg.Info(r.logg.WithSessionID(ctx, engine.ID()), "session created")
	return engine, nil
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Engine, error) {
	r.mu.RLock()
	engine, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("session %q not found", id))
	}
	return engine, nil
}

// Delete drops a session. Deleting an unknown id is not an error.
func (r *Registry) Delete(ctx context.Context, id string) {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	count := len(r.sessions)
	r.mu.Unlock()

	if ok {
		r.metrics.SetActiveSessions(count)
		r.logg.Info(r.logg.WithSessionID(ctx, id), "session deleted")
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle for longer than IdleTTL. Sessions with a
// submission in flight are kept. It returns the number evicted.
func (r *Registry) Sweep(ctx context.Context) int {
	if r.cfg.IdleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.cfg.IdleTTL)

	r.mu.Lock()
	evicted := 0
	for id, engine := range r.sessions {
		if engine.Pending() || engine.LastActive().After(cutoff) {
			continue
		}
		delete(r.sessions, id)
		evicted++
	}
	count := len(r.sessions)
	r.mu.Unlock()

	r.metrics.SetActiveSessions(count)
	if evicted > 0 {
		r.logg.Info(r.logg.WithFields(ctx, map[string]any{"evicted": evicted, "remaining": count}), "idle sessions swept")
	}
	return evicted
}

// Run sweeps on every tick until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

func (r *Registry) full() bool {
	if r.cfg.MaxSessions <= 0 {
		return false
	}
	return r.Len() >= r.cfg.MaxSessions
}
