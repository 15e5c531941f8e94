package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type DueTemplateProcessor interface {
	ProcessDueTemplates(ctx context.Context, today time.Time) ProcessSummary
}

// RecurringScheduler runs the recurring invoice job on a cron schedule. A
// run that is still going when the next one fires is skipped, so one process
// never overlaps itself.
type RecurringScheduler struct {
	cron      *cron.Cron
	processor DueTemplateProcessor
	log       *zap.Logger
	timeout   time.Duration
}

func NewRecurringScheduler(processor DueTemplateProcessor, log *zap.Logger) *RecurringScheduler {
	return &RecurringScheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		processor: processor,
		log:       log,
		timeout:   30 * time.Minute,
	}
}

// Start registers the job under spec (standard 5-field cron syntax) and
// starts the scheduler goroutine.
func (s *RecurringScheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("recurring invoice scheduler started", zap.String("schedule", spec))
	return nil
}

func (s *RecurringScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	summary := s.processor.ProcessDueTemplates(ctx, time.Now())
	if len(summary.Errors) > 0 {
		s.log.Warn("recurring invoice run finished with errors", zap.Int("errors", len(summary.Errors)))
	}
}

// Stop waits for a running job to finish.
func (s *RecurringScheduler) Stop() {
	<-s.cron.Stop().Done()
}
