package exam

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper periodically drops idle attempts from a Store.
type Sweeper struct {
	store    *Store
	schedule string
	logger   *zap.Logger
}

func NewSweeper(store *Store, schedule string, logger *zap.Logger) *Sweeper {
	return &Sweeper{store: store, schedule: schedule, logger: logger}
}

// Start runs the sweep on its schedule until ctx is done.
func (s *Sweeper) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(s.schedule, s.sweep); err != nil {
		return fmt.Errorf("add sweep job %q: %w", s.schedule, err)
	}

	c.Start()
	s.logger.Info("attempt sweeper started", zap.String("schedule", s.schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("attempt sweeper stopped")
	return nil
}

func (s *Sweeper) sweep() {
	removed := s.store.Sweep(time.Now())
	if removed > 0 {
		s.logger.Info("expired exam attempts removed",
			zap.Int("removed", removed),
			zap.Int("remaining", s.store.Len()),
		)
	}
}
