package commands

import (
	"context"
	"time"
)

// DeclineOrderCommandHandler appends a history row only; the order stays available.
type DeclineOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewDeclineOrderCommandHandler(uowFactory OrderUoWFactory) DeclineOrderCommandHandler {
	return DeclineOrderCommandHandler{uowFactory: uowFactory}
}

func (h DeclineOrderCommandHandler) Handle(ctx context.Context, cmd DeclineOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = o.Decline(cmd.Agent(), cmd.Reason(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.AppendHistory(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
