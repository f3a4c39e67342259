package commands

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// DefaultPaymentStatus is stored when the caller does not report a gateway status.
const DefaultPaymentStatus = "PENDING"

// OrderLine is one requested product. The seller is resolved from the catalog.
type OrderLine struct {
	ItemID    kernel.UUID
	ProductID kernel.UUID
	Quantity  int
	UnitPrice int64
	Note      string
}

// Charges are the amounts added to or removed from the item subtotal, in minor units.
type Charges struct {
	Tax      int64
	Delivery int64
	Discount int64
}

// CreateOrderCommand represents a customer placing an order.
//
// Example:
//
//	info, _ := order.NewDeliveryInfo(order.DeliveryStation, "Ann", "+100200300", "", "Central")
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), customer, lines, info,
//	    Charges{Tax: 100, Delivery: 50}, order.PaymentCOD, "PENDING")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	number, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	customer      kernel.Actor
	lines         []OrderLine
	delivery      order.DeliveryInfo
	charges       Charges
	paymentMethod order.PaymentMethod
	paymentStatus string

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(
	orderID kernel.UUID,
	customer kernel.Actor,
	lines []OrderLine,
	delivery order.DeliveryInfo,
	charges Charges,
	paymentMethod order.PaymentMethod,
	paymentStatus string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		charges:       charges,
		paymentStatus: strings.TrimSpace(paymentStatus),
		guard:         guard.NewConstructorGuard(),
	}
	if cmd.paymentStatus == "" {
		cmd.paymentStatus = DefaultPaymentStatus
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomer(customer),
		cmd.setLines(lines),
		cmd.setDelivery(delivery),
		cmd.setPaymentMethod(paymentMethod),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID               { return c.orderID }
func (c CreateOrderCommand) Customer() kernel.Actor             { return c.customer }
func (c CreateOrderCommand) Lines() []OrderLine                 { return append([]OrderLine(nil), c.lines...) }
func (c CreateOrderCommand) Delivery() order.DeliveryInfo       { return c.delivery }
func (c CreateOrderCommand) Charges() Charges                   { return c.charges }
func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod { return c.paymentMethod }
func (c CreateOrderCommand) PaymentStatus() string              { return c.paymentStatus }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomer(customer kernel.Actor) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	if !customer.Is(kernel.RoleCustomer) {
		return errs.NewUnauthorizedErrorWithCause(customer.ID().String(), "orders",
			errors.New("only customers place orders"))
	}

	c.customer = customer
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, line := range lines {
		if err := line.ProductID.Validate(); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}

	c.lines = append([]OrderLine(nil), lines...)
	return nil
}

func (c *CreateOrderCommand) setDelivery(delivery order.DeliveryInfo) error {
	if err := delivery.Validate(); err != nil {
		return err
	}

	c.delivery = delivery
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method order.PaymentMethod) error {
	if _, err := order.ParsePaymentMethod(string(method)); err != nil {
		return err
	}

	c.paymentMethod = method
	return nil
}
