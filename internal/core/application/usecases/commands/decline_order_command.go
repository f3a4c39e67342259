package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrDeclineOrderCommandIsNotConstructed = errors.New(
	"DeclineOrderCommand must be created via NewDeclineOrderCommand constructor",
)

// DeclineOrderCommand records that an agent passed on an order.
type DeclineOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	agent   kernel.Actor
	reason  string

	guard guard.ConstructorGuard
}

func NewDeclineOrderCommand(orderID kernel.UUID, agent kernel.Actor, reason string) (DeclineOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), agent.Validate()); err != nil {
		return DeclineOrderCommand{}, err
	}

	return DeclineOrderCommand{
		orderID: orderID,
		agent:   agent,
		reason:  strings.TrimSpace(reason),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c DeclineOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeclineOrderCommandIsNotConstructed)
}

func (c DeclineOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c DeclineOrderCommand) Agent() kernel.Actor  { return c.agent }
func (c DeclineOrderCommand) Reason() string       { return c.reason }
