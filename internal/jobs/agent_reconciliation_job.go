package jobs

import (
	"context"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/pkg/logger"
	"fulfillment/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// AgentReconciliationSchedule runs every 30 seconds.
const AgentReconciliationSchedule = "*/30 * * * * *"

const agentReconciliationJobName = "agent_reconciliation"

type ReconcileAgentAssignmentsHandler interface {
	Handle(ctx context.Context, cmd commands.ReconcileAgentAssignmentsCommand) (commands.ReconcileResult, error)
}

// AgentReconciliationJob repairs agents whose active order disagrees with the orders they drive.
// A run that overlaps the previous one is skipped.
type AgentReconciliationJob struct {
	handler  ReconcileAgentAssignmentsHandler
	schedule string
	cron     *cron.Cron
	metrics  *metrics.Metrics
	logger   logger.Logger
}

func NewAgentReconciliationJob(
	handler ReconcileAgentAssignmentsHandler,
	schedule string,
	m *metrics.Metrics,
	log logger.Logger,
) *AgentReconciliationJob {
	if schedule == "" {
		schedule = AgentReconciliationSchedule
	}
	return &AgentReconciliationJob{
		handler:  handler,
		schedule: schedule,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		metrics: m,
		logger:  log.With(logger.String("component", "agent_reconciliation_job")),
	}
}

func (j *AgentReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("agent reconciliation job started", logger.String("schedule", j.schedule))
	return nil
}

func (j *AgentReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("agent reconciliation job stopped")
}

func (j *AgentReconciliationJob) run(ctx context.Context) {
	result, err := j.handler.Handle(ctx, commands.NewReconcileAgentAssignmentsCommand())
	j.metrics.JobRun(agentReconciliationJobName, err)
	if err != nil {
		j.logger.Error("agent reconciliation failed", logger.Error(err))
		return
	}

	if result.Assigned+result.Released+result.Skipped == 0 {
		return
	}
	j.logger.Warning("agent assignments reconciled",
		logger.Int("assigned", result.Assigned),
		logger.Int("released", result.Released),
		logger.Int("skipped", result.Skipped),
	)
}
