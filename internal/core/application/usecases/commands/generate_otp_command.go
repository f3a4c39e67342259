package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGenerateOTPCommandIsNotConstructed = errors.New(
	"GenerateOTPCommand must be created via NewGenerateOTPCommand constructor",
)

// GenerateOTPCommand requests a fresh handover code for an order.
type GenerateOTPCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewGenerateOTPCommand(orderID kernel.UUID, actor kernel.Actor) (GenerateOTPCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return GenerateOTPCommand{}, err
	}

	return GenerateOTPCommand{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c GenerateOTPCommand) Validate() error {
	return c.guard.Validate(ErrGenerateOTPCommandIsNotConstructed)
}

func (c GenerateOTPCommand) OrderID() kernel.UUID { return c.orderID }
func (c GenerateOTPCommand) Actor() kernel.Actor  { return c.actor }
