package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// GetOrderQueryHandler returns an order to the parties involved in it: its customer, a seller
// of one of its items, its driver, any agent while it is still up for grabs, and admins.
type GetOrderQueryHandler struct {
	orders ports.OrderRepository
}

func NewGetOrderQueryHandler(orders ports.OrderRepository) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return OrderView{}, err
	}

	if !canView(o, query.Actor()) {
		return OrderView{}, errs.NewUnauthorizedError(query.Actor().ID().String(), "order "+o.ID().String())
	}

	return toOrderView(o), nil
}

func canView(o *order.Order, actor kernel.Actor) bool {
	switch actor.Role() {
	case kernel.RoleAdmin:
		return true
	case kernel.RoleCustomer:
		return actor.ID().IsEqual(o.CustomerID())
	case kernel.RoleSeller:
		return o.HasSeller(actor.ID())
	case kernel.RoleAgent:
		return o.IsAssignedTo(actor.ID()) || (o.Status() == order.ReadyForPickup && o.DriverID() == nil)
	default:
		return false
	}
}

func toOrderView(o *order.Order) OrderView {
	view := OrderView{
		ID:            o.ID(),
		Number:        o.Number(),
		CustomerID:    o.CustomerID(),
		Status:        o.Status().String(),
		Fulfillment:   o.Fulfillment().String(),
		Stage:         o.Stage().String(),
		DriverID:      o.DriverID(),
		DeliveryType:  o.Delivery().Type(),
		Address:       o.Delivery().Address(),
		Station:       o.Delivery().Station(),
		ActualStation: o.ActualStation(),
		Subtotal:      o.Totals().Subtotal(),
		Tax:           o.Totals().Tax(),
		DeliveryFee:   o.Totals().Delivery(),
		Discount:      o.Totals().Discount(),
		FinalAmount:   o.Totals().Final(),
		PaymentMethod: o.Payment().Method(),
		PaymentStatus: o.Payment().Status(),
		OTPPending:    o.OTP() != nil,
		OTPVerified:   o.OTPVerified(),
		Timestamps:    o.Timestamps(),
		CreatedAt:     o.CreatedAt(),
	}
	if proof := o.Proof(); proof != nil {
		view.ProofKind = string(proof.Kind())
	}

	for _, item := range o.Items() {
		view.Items = append(view.Items, ItemView{
			ID:        item.ID(),
			ProductID: item.ProductID(),
			SellerID:  item.SellerID(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
			Status:    item.Status().String(),
			Note:      item.Note(),
		})
	}
	for _, entry := range o.History() {
		view.History = append(view.History, HistoryView{
			Label:     entry.Label(),
			At:        entry.At(),
			ActorID:   entry.ActorID(),
			ActorRole: entry.ActorRole().String(),
			Note:      entry.Note(),
		})
	}

	return view
}
