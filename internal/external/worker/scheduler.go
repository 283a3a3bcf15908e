// Package worker drives the outbox pollers of the external-service: the
// broker publisher for accepted reports and the WebSocket dispatcher for
// staged alerts.
package worker

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler wraps robfig/cron for the fixed-interval pollers. Jobs are
// skipped, not queued, when the previous run is still in flight.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler creates an empty scheduler.
func NewScheduler(logger *zap.Logger) *Scheduler {
	cronLog := cron.PrintfLogger(zap.NewStdLog(logger.Named("cron")))
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.SkipIfStillRunning(cronLog)),
		),
		logger: logger,
	}
}

// AddEvery registers a job that runs once per period.
func (s *Scheduler) AddEvery(period time.Duration, job func()) error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", period), job)
	return err
}

// Start launches the scheduler. Call Stop to shut down.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("poller scheduler started")
}

// Stop stops scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("poller scheduler stopped")
}
