package scheduler

import (
	"context"
	"time"

	"cafe_notice_bot/internal/app" // For RunReport
	"cafe_notice_bot/internal/infra/logger"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Poller is the job the scheduler drives.
type Poller interface {
	PollOnce(ctx context.Context) (app.RunReport, error)
}

// Gate holds the scheduler back until delivery is possible.
type Gate interface {
	Wait(ctx context.Context) error
}

// PollScheduler runs the poller once as soon as the gate opens and then on a fixed
// interval. Runs never overlap.
type PollScheduler struct {
	poller   Poller
	gate     Gate
	interval time.Duration
	logger   *logrus.Entry
}

func NewPollScheduler(poller Poller, gate Gate, interval time.Duration, log *logrus.Entry) *PollScheduler {
	return &PollScheduler{
		poller:   poller,
		gate:     gate,
		interval: interval,
		logger:   log,
	}
}

// Run blocks until ctx is cancelled. If ctx ends before the gate opens no run happens and
// ctx's error is returned; otherwise Run returns nil once the active run, if any, is done.
func (s *PollScheduler) Run(ctx context.Context) error {
	s.logger.Info("Waiting for readiness before polling...")
	if err := s.gate.Wait(ctx); err != nil {
		s.logger.Info("Shutdown requested before readiness; no poll run started.")
		return err
	}

	// Runs outlive shutdown so a batch is never cut between delivery and cursor write.
	runCtx := context.WithoutCancel(ctx)
	cronLog := logger.CronLogger(s.logger)
	job := cron.NewChain(cron.Recover(cronLog), cron.DelayIfStillRunning(cronLog)).
		Then(cron.FuncJob(func() { s.execute(runCtx) }))

	engine := cron.New(cron.WithLogger(cronLog))
	engine.Schedule(cron.Every(s.interval), job)
	engine.Start()
	s.logger.WithField("interval", s.interval.String()).Info("Poll scheduler started.")

	job.Run()

	<-ctx.Done()
	s.logger.Info("Stopping poll scheduler...")
	<-engine.Stop().Done() // Waits for a running job.
	s.logger.Info("Poll scheduler gracefully stopped.")
	return nil
}

// RunOnce waits for the gate and performs a single run, returning its error.
func (s *PollScheduler) RunOnce(ctx context.Context) error {
	if err := s.gate.Wait(ctx); err != nil {
		return err
	}
	_, err := s.poller.PollOnce(context.WithoutCancel(ctx))
	return err
}

func (s *PollScheduler) execute(ctx context.Context) {
	report, err := s.poller.PollOnce(ctx)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"run_id":    report.RunID,
			"delivered": report.Delivered,
		}).Error("Poll run failed; cursor left unchanged, will retry on next tick.")
	}
}
