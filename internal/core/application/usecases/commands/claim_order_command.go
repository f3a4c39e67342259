package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrClaimOrderCommandIsNotConstructed = errors.New(
	"ClaimOrderCommand must be created via NewClaimOrderCommand constructor",
)

// ClaimOrderCommand is a delivery agent taking an available order.
type ClaimOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	agent   kernel.Actor

	guard guard.ConstructorGuard
}

func NewClaimOrderCommand(orderID kernel.UUID, agent kernel.Actor) (ClaimOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), agent.Validate()); err != nil {
		return ClaimOrderCommand{}, err
	}
	if !agent.Is(kernel.RoleAgent) {
		return ClaimOrderCommand{}, errs.NewUnauthorizedErrorWithCause(agent.ID().String(), "order "+orderID.String(),
			errors.New("only delivery agents can claim orders"))
	}

	return ClaimOrderCommand{
		orderID: orderID,
		agent:   agent,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ClaimOrderCommand) Validate() error {
	return c.guard.Validate(ErrClaimOrderCommandIsNotConstructed)
}

func (c ClaimOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c ClaimOrderCommand) Agent() kernel.Actor  { return c.agent }
