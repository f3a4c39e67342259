package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// ChangeOrderStatusCommandHandler applies status changes requested by customers, sellers
// and admins. Aborting an order that is out for delivery frees its driver and counts a
// failed delivery in the same transaction.
type ChangeOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	ledger     services.EarningsLedger
}

func NewChangeOrderStatusCommandHandler(uowFactory UoWFactory, ledger services.EarningsLedger) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledger,
	}
}

func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (order.Status, error) {
	if err := cmd.Validate(); err != nil {
		return order.Unknown, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return order.Unknown, err
	}

	wasOutForDelivery := o.Status() == order.OutForDelivery
	if err = o.ChangeStatus(cmd.Status(), cmd.Actor(), cmd.Note(), time.Now().UTC()); err != nil {
		return order.Unknown, err
	}

	if driverID := o.DriverID(); wasOutForDelivery && o.Status().IsCancelFamily() && driverID != nil {
		agentRepo := uow.AgentRepository()
		driver, getErr := agentRepo.GetForUpdate(ctx, *driverID)
		if getErr != nil {
			return order.Unknown, getErr
		}
		if err = h.ledger.RecordFailedDelivery(driver, o); err != nil {
			return order.Unknown, err
		}
		if err = agentRepo.Update(ctx, driver); err != nil {
			return order.Unknown, err
		}
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return order.Unknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Unknown, err
	}

	return o.Status(), nil
}
