package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SessionEvictor drops form sessions that have been idle too long
type SessionEvictor interface {
	EvictIdle(now time.Time) int
}

// SessionJanitorConfig holds configuration for the session janitor
type SessionJanitorConfig struct {
	Interval time.Duration
}

// DefaultSessionJanitorConfig returns default configuration
func DefaultSessionJanitorConfig() SessionJanitorConfig {
	return SessionJanitorConfig{Interval: time.Minute}
}

// SessionJanitor periodically evicts idle form sessions
type SessionJanitor struct {
	config   SessionJanitorConfig
	sessions SessionEvictor
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	evicted int
}

// NewSessionJanitor creates a new session janitor
func NewSessionJanitor(config SessionJanitorConfig, sessions SessionEvictor, logger *zap.Logger) *SessionJanitor {
	if config.Interval <= 0 {
		config.Interval = DefaultSessionJanitorConfig().Interval
	}
	return &SessionJanitor{
		config:   config,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// Start begins the sweep loop
func (j *SessionJanitor) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.done != nil {
		return fmt.Errorf("session janitor already running")
	}

	ctx, j.cancel = context.WithCancel(ctx)
	j.done = make(chan struct{})
	go j.loop(ctx, j.done)

	j.logger.Info("SessionJanitor started", zap.Duration("interval", j.config.Interval))
	return nil
}

// Stop ends the sweep loop and waits for it to return
func (j *SessionJanitor) Stop() error {
	j.mu.Lock()
	cancel, done := j.cancel, j.done
	j.cancel, j.done = nil, nil
	j.mu.Unlock()

	if done == nil {
		return nil
	}
	cancel()
	<-done

	j.logger.Info("SessionJanitor stopped", zap.Int("evicted_count", j.Evicted()))
	return nil
}

// Name returns the worker name for identification
func (j *SessionJanitor) Name() string {
	return "SessionJanitor"
}

// Evicted returns how many sessions the janitor has dropped so far
func (j *SessionJanitor) Evicted() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.evicted
}

func (j *SessionJanitor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(j.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *SessionJanitor) sweep() {
	n := j.sessions.EvictIdle(j.now())
	if n == 0 {
		return
	}

	j.mu.Lock()
	j.evicted += n
	j.mu.Unlock()

	j.logger.Debug("Evicted idle form sessions", zap.Int("count", n))
}
