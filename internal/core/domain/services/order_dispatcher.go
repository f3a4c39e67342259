package services

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// DefaultEstimatedDelivery is used when no delivery estimate is configured.
const DefaultEstimatedDelivery = 45 * time.Minute

// OrderDispatcher pairs a ready order with the agent claiming it.
//
// Business rules:
//   - The agent must not already work on another order
//   - The order must be ready for pickup and unassigned
//   - Both aggregates change together; the caller persists them in one transaction
//
// Example usage:
//
//	dispatcher := services.NewOrderDispatcher(30 * time.Minute)
//	eta, err := dispatcher.Dispatch(o, a, time.Now())
//	if errors.Is(err, errs.ErrConflict) {
//	    // someone else was faster, re-list available orders
//	}
type OrderDispatcher struct {
	estimatedDelivery time.Duration
}

func NewOrderDispatcher(estimatedDelivery time.Duration) OrderDispatcher {
	if estimatedDelivery <= 0 {
		estimatedDelivery = DefaultEstimatedDelivery
	}
	return OrderDispatcher{estimatedDelivery: estimatedDelivery}
}

// Dispatch claims the order for the agent and returns the estimated delivery time.
func (d OrderDispatcher) Dispatch(o *order.Order, a *agent.Agent, at time.Time) (time.Time, error) {
	if err := errors.Join(o.Validate(), a.Validate()); err != nil {
		return time.Time{}, err
	}
	if err := a.CanTakeOrder(o.ID()); err != nil {
		return time.Time{}, err
	}

	actor, err := kernel.NewActor(a.ID(), kernel.RoleAgent)
	if err != nil {
		return time.Time{}, err
	}
	if err = o.Claim(actor, at); err != nil {
		return time.Time{}, err
	}
	if err = a.TakeOrder(o.ID(), at); err != nil {
		return time.Time{}, fmt.Errorf("agent side of claim: %w", err)
	}

	return d.EstimateDelivery(at), nil
}

// EstimateDelivery returns claimedAt plus the configured delivery estimate.
func (d OrderDispatcher) EstimateDelivery(claimedAt time.Time) time.Time {
	return claimedAt.Add(d.estimatedDelivery)
}

// EnsureAssigned re-applies the agent side of a claim; safe to repeat.
func (d OrderDispatcher) EnsureAssigned(o *order.Order, a *agent.Agent, at time.Time) error {
	if !o.IsAssignedTo(a.ID()) {
		return errs.NewUnauthorizedError(a.ID().String(), "order "+o.ID().String())
	}
	if o.Status() != order.OutForDelivery {
		return nil
	}
	return a.TakeOrder(o.ID(), at)
}
