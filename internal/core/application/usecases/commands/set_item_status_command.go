package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrSetItemStatusCommandIsNotConstructed = errors.New(
	"SetItemStatusCommand must be created via NewSetItemStatusCommand constructor",
)

// SetItemStatusCommand moves one order item on behalf of its seller.
//
// Example:
//
//	cmd, err := NewSetItemStatusCommand(orderID, itemID, seller, "ready", "")
//	if errors.Is(err, errs.ErrValidation) {
//	    // unknown item status
//	}
type SetItemStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	itemID  kernel.UUID
	actor   kernel.Actor
	status  order.ItemStatus
	note    string

	guard guard.ConstructorGuard
}

func NewSetItemStatusCommand(
	orderID, itemID kernel.UUID,
	actor kernel.Actor,
	status, note string,
) (SetItemStatusCommand, error) {
	parsed, statusErr := order.ParseItemStatus(status)
	if err := errors.Join(orderID.Validate(), itemID.Validate(), actor.Validate(), statusErr); err != nil {
		return SetItemStatusCommand{}, err
	}

	return SetItemStatusCommand{
		orderID: orderID,
		itemID:  itemID,
		actor:   actor,
		status:  parsed,
		note:    strings.TrimSpace(note),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c SetItemStatusCommand) Validate() error {
	return c.guard.Validate(ErrSetItemStatusCommandIsNotConstructed)
}

func (c SetItemStatusCommand) OrderID() kernel.UUID     { return c.orderID }
func (c SetItemStatusCommand) ItemID() kernel.UUID      { return c.itemID }
func (c SetItemStatusCommand) Actor() kernel.Actor      { return c.actor }
func (c SetItemStatusCommand) Status() order.ItemStatus { return c.status }
func (c SetItemStatusCommand) Note() string             { return c.note }
