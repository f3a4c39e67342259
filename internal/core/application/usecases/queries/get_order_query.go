package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

type GetOrderQuery struct {
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, actor kernel.Actor) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }
func (q GetOrderQuery) Actor() kernel.Actor  { return q.actor }

type ItemView struct {
	ID        kernel.UUID
	ProductID kernel.UUID
	SellerID  kernel.UUID
	Quantity  int
	UnitPrice int64
	Status    string
	Note      string
}

type HistoryView struct {
	Label     string
	At        time.Time
	ActorID   kernel.UUID
	ActorRole string
	Note      string
}

// OrderView is the tracking view of an order. OTP material is never part of it.
type OrderView struct {
	ID            kernel.UUID
	Number        string
	CustomerID    kernel.UUID
	Status        string
	Fulfillment   string
	Stage         string
	DriverID      *kernel.UUID
	DeliveryType  order.DeliveryType
	Address       string
	Station       string
	ActualStation string
	Subtotal      int64
	Tax           int64
	DeliveryFee   int64
	Discount      int64
	FinalAmount   int64
	PaymentMethod order.PaymentMethod
	PaymentStatus string
	OTPPending    bool
	OTPVerified   bool
	ProofKind     string
	Items         []ItemView
	History       []HistoryView
	Timestamps    map[string]time.Time
	CreatedAt     time.Time
}
