package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// CreateOrderCommandHandler places a new order in PENDING.
// The seller of every item is taken from the catalog, never from the request.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, catalog)
//	number, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	fmt.Printf("order %s placed", number)
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.ProductCatalog
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, catalog ports.ProductCatalog) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
	}
}

// Handle builds the order and returns its human readable number.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	items, subtotal, err := h.buildItems(ctx, cmd.Lines())
	if err != nil {
		return "", err
	}

	charges := cmd.Charges()
	totals, err := order.NewTotals(subtotal, charges.Tax, charges.Delivery, charges.Discount,
		subtotal+charges.Tax+charges.Delivery-charges.Discount)
	if err != nil {
		return "", err
	}
	payment, err := order.NewPayment(cmd.PaymentMethod(), cmd.PaymentStatus())
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	number, err := order.GenerateNumber(now)
	if err != nil {
		return "", err
	}
	o, err := order.NewOrder(cmd.OrderID(), number, cmd.Customer().ID(), items, cmd.Delivery(), totals, payment, now)
	if err != nil {
		return "", err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	return number, nil
}

func (h CreateOrderCommandHandler) buildItems(ctx context.Context, lines []OrderLine) ([]*order.Item, int64, error) {
	items := make([]*order.Item, 0, len(lines))
	var subtotal int64
	for i, line := range lines {
		sellerID, err := h.catalog.SellerOf(ctx, line.ProductID)
		if err != nil {
			return nil, 0, fmt.Errorf("items[%d]: %w", i, err)
		}

		itemID := line.ItemID
		if itemID.Validate() != nil {
			itemID = kernel.NewUUID()
		}
		item, err := order.NewItem(itemID, line.ProductID, sellerID, line.Quantity, line.UnitPrice, line.Note)
		if err != nil {
			return nil, 0, fmt.Errorf("items[%d]: %w", i, err)
		}

		items = append(items, item)
		subtotal += item.LineTotal()
	}
	return items, subtotal, nil
}
