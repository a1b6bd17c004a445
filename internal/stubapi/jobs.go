package stubapi

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// pendingTTL is how long an unpaid reservation holds its dates before
// the sweeper releases them.
const pendingTTL = 30 * time.Minute

// Sweeper periodically settles reservation state: active reservations
// past their end date become completed, and stale pending-payment
// reservations are dropped so their dates free up again.
type Sweeper struct {
	store *Store
	log   *zap.Logger
	cron  *cron.Cron
}

func NewSweeper(store *Store, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{store: store, log: log, cron: cron.New()}
}

// Start schedules the sweep every ten minutes and runs it once
// immediately.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc("@every 10m", s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.Sweep()
	return nil
}

// Stop halts the schedule. Already-running sweeps finish.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// Sweep runs one settlement pass.
func (s *Sweeper) Sweep() {
	finished := s.store.SweepFinished()
	dropped := s.store.DeleteStalePending(time.Now().Add(-pendingTTL))
	if finished > 0 || dropped > 0 {
		s.log.Info("reservation sweep",
			zap.Int("completed", finished),
			zap.Int("stale_pending_dropped", dropped))
	}
}
