package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// SetItemStatusResponse reports the order after the item change rolled up.
type SetItemStatusResponse struct {
	Status      order.Status
	Fulfillment order.Rollup
}

// SetItemStatusCommandHandler serializes sellers on the order row: the order is read with a
// row lock, mutated and written back with a version check inside one transaction, so two
// sellers updating sibling items never lose each other's change.
type SetItemStatusCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewSetItemStatusCommandHandler(uowFactory OrderUoWFactory) SetItemStatusCommandHandler {
	return SetItemStatusCommandHandler{uowFactory: uowFactory}
}

func (h SetItemStatusCommandHandler) Handle(ctx context.Context, cmd SetItemStatusCommand) (SetItemStatusResponse, error) {
	if err := cmd.Validate(); err != nil {
		return SetItemStatusResponse{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SetItemStatusResponse{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return SetItemStatusResponse{}, err
	}

	if err = o.SetItemStatus(cmd.ItemID(), cmd.Status(), cmd.Actor(), cmd.Note(), time.Now().UTC()); err != nil {
		return SetItemStatusResponse{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return SetItemStatusResponse{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return SetItemStatusResponse{}, err
	}

	return SetItemStatusResponse{Status: o.Status(), Fulfillment: o.Fulfillment()}, nil
}
