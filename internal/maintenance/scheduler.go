// Package maintenance runs periodic housekeeping against the settings database.
package maintenance

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// OrphanPurger deletes value rows whose definition no longer exists.
type OrphanPurger interface {
	DeleteOrphanValues(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron    *cron.Cron
	purger  OrphanPurger
	timeout time.Duration
}

func NewScheduler(purger OrphanPurger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		purger:  purger,
		timeout: 5 * time.Minute,
	}
}

// Start registers the cleanup job on spec (six fields, seconds first) and
// starts the cron runner.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("failed to create cron job: %w", err)
	}

	log.Printf("Cron scheduler started (orphan cleanup on %q)", spec)
	s.cron.Start()
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce purges orphaned values and returns how many rows went away.
func (s *Scheduler) RunOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.purger.DeleteOrphanValues(ctx)
	if err != nil {
		log.Printf("Orphan cleanup failed: %v", err)
		return 0
	}
	log.Printf("Orphan cleanup removed %d values in %s", n, time.Since(start))
	return n
}
