package jobs

import (
	"fmt"

	"fulfillment/internal/pkg/logger"
	"fulfillment/internal/pkg/metrics"
)

// Schedules overrides the default cron expressions; empty fields keep the defaults.
type Schedules struct {
	EarningsReset       string
	AgentReconciliation string
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	earningsResetJob       *EarningsResetJob
	agentReconciliationJob *AgentReconciliationJob
}

func NewJobManager(
	resetHandler ResetDailyEarningsHandler,
	reconcileHandler ReconcileAgentAssignmentsHandler,
	schedules Schedules,
	m *metrics.Metrics,
	log logger.Logger,
) *JobManager {
	if m == nil {
		m = metrics.New()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &JobManager{
		earningsResetJob:       NewEarningsResetJob(resetHandler, schedules.EarningsReset, m, log),
		agentReconciliationJob: NewAgentReconciliationJob(reconcileHandler, schedules.AgentReconciliation, m, log),
	}
}

// StartAll starts all scheduled jobs. Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.earningsResetJob.Start(); err != nil {
		return fmt.Errorf("failed to start earnings reset job: %w", err)
	}

	if err := jm.agentReconciliationJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.earningsResetJob.Stop()
		return fmt.Errorf("failed to start agent reconciliation job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.agentReconciliationJob.Stop()
	jm.earningsResetJob.Stop()
}
