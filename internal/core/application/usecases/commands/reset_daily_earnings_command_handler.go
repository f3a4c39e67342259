package commands

import (
	"context"
)

type ResetDailyEarningsCommandHandler struct {
	uowFactory AgentUoWFactory
}

func NewResetDailyEarningsCommandHandler(uowFactory AgentUoWFactory) ResetDailyEarningsCommandHandler {
	return ResetDailyEarningsCommandHandler{uowFactory: uowFactory}
}

// Handle zeroes today's earnings and returns the number of agents touched.
func (h ResetDailyEarningsCommandHandler) Handle(ctx context.Context, cmd ResetDailyEarningsCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	affected, err := uow.AgentRepository().ResetTodayEarnings(ctx)
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return affected, nil
}
