package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ReconcileResult counts what a reconciliation pass changed.
type ReconcileResult struct {
	// Assigned agents had the agent side of a claim re-applied.
	Assigned int
	// Released agents pointed at an order they no longer drive.
	Released int
	// Skipped agents hold a different order than the one naming them as driver.
	Skipped int
}

// ReconcileAgentAssignmentsCommandHandler is the follow-up step of the claim: every order that
// is out for delivery must be the active order of its driver, and no agent may stay busy with
// an order it no longer drives. Each step is idempotent, so the job may run at any time.
type ReconcileAgentAssignmentsCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.OrderDispatcher
}

func NewReconcileAgentAssignmentsCommandHandler(
	uowFactory UoWFactory,
	dispatcher services.OrderDispatcher,
) ReconcileAgentAssignmentsCommandHandler {
	return ReconcileAgentAssignmentsCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
	}
}

func (h ReconcileAgentAssignmentsCommandHandler) Handle(
	ctx context.Context,
	cmd ReconcileAgentAssignmentsCommand,
) (ReconcileResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReconcileResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ReconcileResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	agentRepo := uow.AgentRepository()
	var result ReconcileResult

	busy, err := agentRepo.GetAllWithActiveOrder(ctx)
	if err != nil {
		return ReconcileResult{}, err
	}
	for _, a := range busy {
		released, releaseErr := h.releaseStale(ctx, orderRepo, a)
		if releaseErr != nil {
			return ReconcileResult{}, releaseErr
		}
		if !released {
			continue
		}
		if err = agentRepo.Update(ctx, a); err != nil {
			return ReconcileResult{}, err
		}
		result.Released++
	}

	outForDelivery, err := orderRepo.GetAllOutForDelivery(ctx)
	if err != nil {
		return ReconcileResult{}, err
	}
	now := time.Now().UTC()
	for _, listed := range outForDelivery {
		// Lock the order before its driver, like the delivery handlers do, and re-check it:
		// the listing may predate a delivery that has just committed.
		o, getErr := orderRepo.GetForUpdate(ctx, listed.ID())
		if errors.Is(getErr, errs.ErrObjectNotFound) {
			continue
		}
		if getErr != nil {
			return ReconcileResult{}, getErr
		}
		driverID := o.DriverID()
		if o.Status() != order.OutForDelivery || driverID == nil {
			continue
		}

		a, getErr := agentRepo.GetForUpdate(ctx, *driverID)
		if getErr != nil {
			return ReconcileResult{}, getErr
		}
		if active := a.ActiveOrderID(); active != nil && active.IsEqual(o.ID()) {
			continue
		}

		if err = h.dispatcher.EnsureAssigned(o, a, now); err != nil {
			if errors.Is(err, errs.ErrConflict) {
				result.Skipped++
				continue
			}
			return ReconcileResult{}, err
		}
		if err = agentRepo.Update(ctx, a); err != nil {
			return ReconcileResult{}, err
		}
		result.Assigned++
	}

	if err = uow.Commit(ctx); err != nil {
		return ReconcileResult{}, err
	}

	return result, nil
}

func (h ReconcileAgentAssignmentsCommandHandler) releaseStale(
	ctx context.Context,
	orderRepo ports.OrderRepository,
	a *agent.Agent,
) (bool, error) {
	activeID := a.ActiveOrderID()
	if activeID == nil {
		return false, nil
	}

	o, err := orderRepo.Get(ctx, *activeID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return a.ReleaseOrder(*activeID), nil
	}
	if err != nil {
		return false, err
	}

	if o.Status() == order.OutForDelivery && o.IsAssignedTo(a.ID()) {
		return false, nil
	}
	return a.ReleaseOrder(*activeID), nil
}
