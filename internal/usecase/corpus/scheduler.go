package corpus

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/agentjobs/internal/logger"
)

// DefaultRefreshSpec is used when no cron spec is configured.
const DefaultRefreshSpec = "@every 15m"

// Scheduler refreshes the corpus on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	spec      string
	logger    *zap.Logger
}

// NewScheduler creates a scheduler. Overlapping runs are skipped.
func NewScheduler(refresher Refresher, spec string, log *zap.Logger) *Scheduler {
	if spec == "" {
		spec = DefaultRefreshSpec
	}
	cl := cronLogger{log: log.Sugar()}
	return &Scheduler{
		cron:      cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl))),
		refresher: refresher,
		spec:      spec,
		logger:    log,
	}
}

// Start registers the refresh job and starts the cron loop. It does not refresh immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info("corpus refresh scheduled", zap.String("spec", s.spec))
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("corpus refresh stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	ctx = logger.ContextWithLogger(ctx, s.logger)
	if _, err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Error("corpus refresh failed", zap.Error(err))
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
