package jobs

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the periodic background jobs: the alert check cycle,
// the daily key reset and the daily summary.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		logger: logger,
	}
}

func (s *Scheduler) AddJob(spec, name string, fn func()) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.logger.Debug("cron job started", zap.String("job", name))
		fn()
	})
	if err != nil {
		return err
	}
	s.logger.Info("cron job registered", zap.String("job", name), zap.String("spec", spec))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling; running jobs finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
