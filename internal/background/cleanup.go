package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/nsavelev/tasktracker/internal/session"
)

// SessionSweeper periodically removes expired sessions from the
// in-memory registry so abandoned logins don't accumulate.
type SessionSweeper struct {
	manager  *session.Manager
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewSessionSweeper creates a new sweeper.
func NewSessionSweeper(manager *session.Manager, logger *slog.Logger, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		manager:  manager,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep task.
func (s *SessionSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on startup
	s.runSweep()

	for {
		select {
		case <-ticker.C:
			s.runSweep()
		case <-s.stopCh:
			s.logger.Info("session sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("session sweeper context cancelled")
			return
		}
	}
}

func (s *SessionSweeper) runSweep() {
	removed := s.manager.Sweep()
	if removed > 0 {
		s.logger.Info("expired session sweep completed",
			slog.Int("sessions_removed", removed),
			slog.Int("sessions_active", s.manager.ActiveCount()),
		)
	}
}

// Stop signals the sweeper to stop.
func (s *SessionSweeper) Stop() {
	close(s.stopCh)
}
