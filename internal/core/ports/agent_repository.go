package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
)

// AgentRepository defines the persistence contract for delivery agents.
type AgentRepository interface {
	Add(ctx context.Context, aggregate *agent.Agent) error

	// Update persists the agent with a version check and appends new assignment and
	// ledger rows. Already stored assignments and credited orders are skipped.
	Update(ctx context.Context, aggregate *agent.Agent) error

	Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error)

	// GetForUpdate retrieves an agent and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*agent.Agent, error)

	// GetAllWithActiveOrder retrieves the agents currently marked busy.
	GetAllWithActiveOrder(ctx context.Context) ([]*agent.Agent, error)

	// ResetTodayEarnings zeroes today's earnings of every agent and returns how many changed.
	ResetTodayEarnings(ctx context.Context) (int64, error)
}
