// Package jobs runs the scheduled maintenance tasks of the store.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// DailyResetter resets the daily earning tracker of every stale wallet.
type DailyResetter interface {
	ResetAllDailyTrackers(ctx context.Context) (int64, error)
}

type ResetMetrics interface {
	RecordDailyReset(wallets int64)
}

// Scheduler owns the cron runner. Schedules are evaluated in UTC, the same
// day boundary the wallet engine uses.
type Scheduler struct {
	cron    *cron.Cron
	wallets DailyResetter
	metrics ResetMetrics
	timeout time.Duration
}

func NewScheduler(wallets DailyResetter, metrics ResetMetrics) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		wallets: wallets,
		metrics: metrics,
		timeout: 5 * time.Minute,
	}
}

// ScheduleDailyReset registers the reset job under a standard five-field
// cron spec.
func (s *Scheduler) ScheduleDailyReset(spec string) error {
	_, err := s.cron.AddFunc(spec, func() { s.RunDailyReset(context.Background()) })
	return err
}

// RunDailyReset performs one reset pass.
func (s *Scheduler) RunDailyReset(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.wallets.ResetAllDailyTrackers(ctx)
	if err != nil {
		log.WithError(err).Error("daily reset job failed")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordDailyReset(n)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
