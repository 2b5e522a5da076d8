package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ExpiredTokenSweeper removes refresh token records past their expiry
type ExpiredTokenSweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// TokenSweeper periodically deletes expired refresh tokens. Verification
// already rejects expired tokens; the sweep only keeps the store small.
type TokenSweeper struct {
	sessions   ExpiredTokenSweeper
	interval   time.Duration
	startDelay time.Duration
	timeout    time.Duration
	stopCh     chan struct{}
	wg         sync.WaitGroup
	running    bool
	mu         sync.Mutex
}

// TokenSweeperConfig holds configuration for the token sweeper
type TokenSweeperConfig struct {
	Sessions   ExpiredTokenSweeper
	Interval   time.Duration // Default: 15 minutes
	StartDelay time.Duration // Wait before the first sweep
	Timeout    time.Duration // Per-sweep deadline. Default: 1 minute
}

// NewTokenSweeper creates a new token sweeper job
func NewTokenSweeper(cfg TokenSweeperConfig) *TokenSweeper {
	if cfg.Interval == 0 {
		cfg.Interval = 15 * time.Minute
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Minute
	}
	return &TokenSweeper{
		sessions:   cfg.Sessions,
		interval:   cfg.Interval,
		startDelay: cfg.StartDelay,
		timeout:    cfg.Timeout,
		stopCh:     make(chan struct{}),
	}
}

// Start begins sweeping in the background
func (s *TokenSweeper) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run()
	slog.Info("token sweeper started", "interval", s.interval)
}

// Stop halts the sweeper and waits for an in-flight sweep to finish
func (s *TokenSweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	slog.Info("token sweeper stopped")
}

func (s *TokenSweeper) run() {
	defer s.wg.Done()

	select {
	case <-time.After(s.startDelay):
	case <-s.stopCh:
		return
	}
	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *TokenSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.sessions.SweepExpired(ctx)
	if err != nil {
		slog.Error("token sweep failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("expired refresh tokens removed", "count", n)
	}
}

// RunOnce runs a single sweep (for testing or manual trigger)
func (s *TokenSweeper) RunOnce(ctx context.Context) (int, error) {
	return s.sessions.SweepExpired(ctx)
}

// IsRunning returns whether the sweeper is running
func (s *TokenSweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
