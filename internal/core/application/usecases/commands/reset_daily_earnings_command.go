package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrResetDailyEarningsCommandIsNotConstructed = errors.New(
	"ResetDailyEarningsCommand must be created via NewResetDailyEarningsCommand constructor",
)

// ResetDailyEarningsCommand starts a new earnings day for every agent.
type ResetDailyEarningsCommand struct {
	guard guard.ConstructorGuard
}

func NewResetDailyEarningsCommand() ResetDailyEarningsCommand {
	return ResetDailyEarningsCommand{guard: guard.NewConstructorGuard()}
}

func (c ResetDailyEarningsCommand) Validate() error {
	return c.guard.Validate(ErrResetDailyEarningsCommandIsNotConstructed)
}
