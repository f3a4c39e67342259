package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// AdvanceDeliveryResponse reports where the order stands after the step.
type AdvanceDeliveryResponse struct {
	Status     order.Status
	Stage      order.DeliveryStage
	Timestamps map[string]time.Time
	// Credited is false when the delivery had already been booked for the driver.
	Credited bool
}

// AdvanceDeliveryCommandHandler runs the driver-side lifecycle.
//
// The final handover is atomic: the order becomes DELIVERED, the driver is credited once
// through the earnings ledger and becomes available again, all in one transaction.
type AdvanceDeliveryCommandHandler struct {
	uowFactory UoWFactory
	ledger     services.EarningsLedger
}

func NewAdvanceDeliveryCommandHandler(uowFactory UoWFactory, ledger services.EarningsLedger) AdvanceDeliveryCommandHandler {
	return AdvanceDeliveryCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledger,
	}
}

func (h AdvanceDeliveryCommandHandler) Handle(ctx context.Context, cmd AdvanceDeliveryCommand) (AdvanceDeliveryResponse, error) {
	if err := cmd.Validate(); err != nil {
		return AdvanceDeliveryResponse{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AdvanceDeliveryResponse{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return AdvanceDeliveryResponse{}, err
	}

	now := time.Now().UTC()
	credited := false
	switch cmd.Stage() {
	case order.StagePickedUp:
		err = o.MarkPickedUp(cmd.Driver(), now)
	case order.StageReachedStation:
		err = o.MarkReachedStation(cmd.Driver(), cmd.Station(), now)
	case order.StageDelivered:
		credited, err = h.deliver(ctx, uow, o, cmd, now)
	}
	if err != nil {
		return AdvanceDeliveryResponse{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return AdvanceDeliveryResponse{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AdvanceDeliveryResponse{}, err
	}

	return AdvanceDeliveryResponse{
		Status:     o.Status(),
		Stage:      o.Stage(),
		Timestamps: o.Timestamps(),
		Credited:   credited,
	}, nil
}

func (h AdvanceDeliveryCommandHandler) deliver(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	cmd AdvanceDeliveryCommand,
	now time.Time,
) (bool, error) {
	if err := o.Deliver(cmd.Driver(), cmd.Proof(), now); err != nil {
		return false, err
	}

	agentRepo := uow.AgentRepository()
	driver, err := agentRepo.GetForUpdate(ctx, cmd.Driver().ID())
	if err != nil {
		return false, err
	}

	credited, err := h.ledger.RecordDelivery(driver, o, now)
	if err != nil {
		return false, err
	}

	if err = agentRepo.Update(ctx, driver); err != nil {
		return false, err
	}
	return credited, nil
}
