package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// ClaimOrderResponse is the claimed order and when it is expected at the customer.
type ClaimOrderResponse struct {
	Order                 *order.Order
	EstimatedDeliveryTime time.Time
}

// ClaimOrderCommandHandler resolves the race between agents competing for one order.
//
// The order is read without a lock and checked in the domain; the write is a conditional
// update that only matches an unassigned READY_FOR_PICKUP row. Of N concurrent claims
// exactly one matches, the others get errs.ConflictError. The agent row is locked and
// updated in the same transaction.
//
// Example:
//
//	resp, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrConflict) {
//	    // another agent was faster; refresh the available list
//	}
type ClaimOrderCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.OrderDispatcher
}

func NewClaimOrderCommandHandler(uowFactory UoWFactory, dispatcher services.OrderDispatcher) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
	}
}

func (h ClaimOrderCommandHandler) Handle(ctx context.Context, cmd ClaimOrderCommand) (ClaimOrderResponse, error) {
	if err := cmd.Validate(); err != nil {
		return ClaimOrderResponse{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ClaimOrderResponse{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	agentRepo := uow.AgentRepository()

	a, err := agentRepo.GetForUpdate(ctx, cmd.Agent().ID())
	if err != nil {
		return ClaimOrderResponse{}, err
	}
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return ClaimOrderResponse{}, err
	}

	eta, err := h.dispatcher.Dispatch(o, a, time.Now().UTC())
	if err != nil {
		return ClaimOrderResponse{}, err
	}

	if err = orderRepo.Claim(ctx, o); err != nil {
		return ClaimOrderResponse{}, err
	}
	if err = agentRepo.Update(ctx, a); err != nil {
		return ClaimOrderResponse{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ClaimOrderResponse{}, err
	}

	return ClaimOrderResponse{Order: o, EstimatedDeliveryTime: eta}, nil
}
