// Package jobs provides scheduled background tasks of the fulfillment service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, with a seconds field):
//
//  1. EarningsResetJob runs at midnight and zeroes today's earnings of every agent.
//  2. AgentReconciliationJob runs every 30 seconds. It makes every OUT_FOR_DELIVERY order the
//     active order of its driver and releases agents still holding an order they no longer drive.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(resetHandler, reconcileHandler, jobs.Schedules{}, m, log)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and counted in job_runs_total{result="error"}; the next tick retries.
// Failed job starts stop any already running jobs.
package jobs
