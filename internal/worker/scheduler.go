package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/martinsuchenak/netorg/internal/log"
)

// PassFunc runs one organization pass. Scheduled passes are always dry
// runs; commits stay behind an explicit operator action.
type PassFunc func(ctx context.Context) error

// Scheduler triggers periodic dry-run passes on a cron spec and hands
// the actual work to the pool.
type Scheduler struct {
	cron *cron.Cron
	pool *WorkerPool
	pass PassFunc
}

// NewScheduler creates a scheduler for the given cron spec. The spec uses
// the standard five-field format (e.g. "0 3 * * *" for 3am daily).
func NewScheduler(spec string, pool *WorkerPool, pass PassFunc) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(),
		pool: pool,
		pass: pass,
	}

	if _, err := s.cron.AddFunc(spec, s.trigger); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}

	return s, nil
}

// Start starts the cron loop
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info("Scheduler started")
}

// Stop stops the cron loop and waits for a running pass to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Scheduler stopped")
}

// trigger submits one scheduled pass to the pool
func (s *Scheduler) trigger() {
	job := Job{
		ID: fmt.Sprintf("scheduled-pass-%d", time.Now().Unix()),
		Handler: func(ctx context.Context) error {
			log.Info("Running scheduled organization pass")
			if err := s.pass(ctx); err != nil {
				log.Error("Scheduled pass failed", "error", err)
				return err
			}
			log.Info("Scheduled pass completed")
			return nil
		},
	}

	if err := s.pool.Submit(job); err != nil {
		log.Error("Failed to submit scheduled pass", "error", err)
	}
}
