package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetAgentQueryIsNotConstructed = errors.New(
	"GetAgentQuery must be created via NewGetAgentQuery constructor",
)

// GetAgentQuery reads an agent profile with its earnings and delivery statistics.
// Agents may read only their own profile; admins may read any.
type GetAgentQuery struct {
	agentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetAgentQuery(agentID kernel.UUID, actor kernel.Actor) (GetAgentQuery, error) {
	if err := errors.Join(agentID.Validate(), actor.Validate()); err != nil {
		return GetAgentQuery{}, err
	}
	if !actor.Is(kernel.RoleAdmin) && !(actor.Is(kernel.RoleAgent) && actor.ID().IsEqual(agentID)) {
		return GetAgentQuery{}, errs.NewUnauthorizedError(actor.ID().String(), "agent "+agentID.String())
	}
	return GetAgentQuery{agentID: agentID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAgentQuery) Validate() error {
	return q.guard.Validate(ErrGetAgentQueryIsNotConstructed)
}

func (q GetAgentQuery) AgentID() kernel.UUID { return q.agentID }

type GetAgentQueryResponse struct {
	ID                   kernel.UUID
	Name                 string
	Available            bool
	ActiveOrderID        *kernel.UUID
	TodayEarnings        int64
	TotalEarnings        int64
	PendingEarnings      int64
	CashCollected        int64
	TotalDeliveries      int
	SuccessfulDeliveries int
	CompletionRate       float64
	Assignments          int
}
