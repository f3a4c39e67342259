package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ListAvailableOrdersQueryHandler reads the lazy sequence of claimable orders and stops
// as soon as the requested number is collected, so further pages are never fetched.
type ListAvailableOrdersQueryHandler struct {
	orders ports.OrderRepository
}

func NewListAvailableOrdersQueryHandler(orders ports.OrderRepository) ListAvailableOrdersQueryHandler {
	return ListAvailableOrdersQueryHandler{orders: orders}
}

func (h ListAvailableOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListAvailableOrdersQuery,
) ([]AvailableOrder, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	result := make([]AvailableOrder, 0, query.Limit())
	for o, err := range h.orders.ListAvailable(ctx) {
		if err != nil {
			return nil, err
		}
		result = append(result, toAvailableOrder(o))
		if len(result) == query.Limit() {
			break
		}
	}

	return result, nil
}

func toAvailableOrder(o *order.Order) AvailableOrder {
	return AvailableOrder{
		ID:           o.ID(),
		Number:       o.Number(),
		DeliveryType: o.Delivery().Type(),
		Address:      o.Delivery().Address(),
		Station:      o.Delivery().Station(),
		ItemCount:    len(o.Items()),
		FinalAmount:  o.Totals().Final(),
		Payment:      o.Payment().Method(),
		CreatedAt:    o.CreatedAt(),
	}
}
