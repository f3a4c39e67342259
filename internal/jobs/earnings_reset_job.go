package jobs

import (
	"context"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/pkg/logger"
	"fulfillment/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// EarningsResetSchedule fires at midnight, server time.
const EarningsResetSchedule = "0 0 0 * * *"

const earningsResetJobName = "earnings_reset"

type ResetDailyEarningsHandler interface {
	Handle(ctx context.Context, cmd commands.ResetDailyEarningsCommand) (int64, error)
}

// EarningsResetJob zeroes today's earnings of every agent once a day.
type EarningsResetJob struct {
	handler  ResetDailyEarningsHandler
	schedule string
	cron     *cron.Cron
	metrics  *metrics.Metrics
	logger   logger.Logger
}

func NewEarningsResetJob(
	handler ResetDailyEarningsHandler,
	schedule string,
	m *metrics.Metrics,
	log logger.Logger,
) *EarningsResetJob {
	if schedule == "" {
		schedule = EarningsResetSchedule
	}
	return &EarningsResetJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		metrics:  m,
		logger:   log.With(logger.String("component", "earnings_reset_job")),
	}
}

func (j *EarningsResetJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("earnings reset job started", logger.String("schedule", j.schedule))
	return nil
}

// Stop waits for a running reset to finish.
func (j *EarningsResetJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("earnings reset job stopped")
}

func (j *EarningsResetJob) run(ctx context.Context) {
	reset, err := j.handler.Handle(ctx, commands.NewResetDailyEarningsCommand())
	j.metrics.JobRun(earningsResetJobName, err)
	if err != nil {
		j.logger.Error("earnings reset failed", logger.Error(err))
		return
	}
	j.logger.Info("today's earnings reset", logger.Int64("agents", reset))
}
