package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrListAvailableOrdersQueryIsNotConstructed = errors.New(
	"ListAvailableOrdersQuery must be created via NewListAvailableOrdersQuery constructor",
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ListAvailableOrdersQuery lists orders an agent may claim, oldest first.
//
// Example:
//
//	query, _ := NewListAvailableOrdersQuery(agentActor, 10)
//	orders, err := handler.Handle(ctx, query)
type ListAvailableOrdersQuery struct {
	actor kernel.Actor
	limit int

	guard guard.ConstructorGuard
}

// NewListAvailableOrdersQuery clamps limit to [1, MaxListLimit]; zero selects DefaultListLimit.
func NewListAvailableOrdersQuery(actor kernel.Actor, limit int) (ListAvailableOrdersQuery, error) {
	if err := actor.Validate(); err != nil {
		return ListAvailableOrdersQuery{}, err
	}
	if !actor.Is(kernel.RoleAgent) && !actor.Is(kernel.RoleAdmin) {
		return ListAvailableOrdersQuery{}, errs.NewUnauthorizedError(actor.ID().String(), "available orders")
	}
	if limit < 0 {
		return ListAvailableOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxListLimit)
	}
	if limit == 0 {
		limit = DefaultListLimit
	}

	return ListAvailableOrdersQuery{
		actor: actor,
		limit: min(limit, MaxListLimit),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (q ListAvailableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListAvailableOrdersQueryIsNotConstructed)
}

func (q ListAvailableOrdersQuery) Limit() int { return q.limit }

// AvailableOrder is what an agent needs to decide whether to claim.
type AvailableOrder struct {
	ID           kernel.UUID
	Number       string
	DeliveryType order.DeliveryType
	Address      string
	Station      string
	ItemCount    int
	FinalAmount  int64
	Payment      order.PaymentMethod
	CreatedAt    time.Time
}
