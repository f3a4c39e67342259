package commands

import (
	"context"
	"time"
)

type ReportDeliveryIssueCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewReportDeliveryIssueCommandHandler(uowFactory OrderUoWFactory) ReportDeliveryIssueCommandHandler {
	return ReportDeliveryIssueCommandHandler{uowFactory: uowFactory}
}

// Handle stores the note in the order history; status and stage are left alone.
func (h ReportDeliveryIssueCommandHandler) Handle(ctx context.Context, cmd ReportDeliveryIssueCommand) error {
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

	if err = o.ReportIssue(cmd.Driver(), cmd.Note(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.AppendHistory(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
