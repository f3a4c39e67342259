package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
)

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type NewOrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	Note      string `json:"note"`
}

type NewOrder struct {
	Items         []NewOrderItem `json:"items"`
	DeliveryType  string         `json:"deliveryType"`
	ContactName   string         `json:"contactName"`
	ContactPhone  string         `json:"contactPhone"`
	Address       string         `json:"address"`
	Station       string         `json:"station"`
	Tax           int64          `json:"tax"`
	DeliveryFee   int64          `json:"deliveryFee"`
	Discount      int64          `json:"discount"`
	PaymentMethod string         `json:"paymentMethod"`
	PaymentStatus string         `json:"paymentStatus"`
}

type CreatedOrder struct {
	ID     string `json:"id"`
	Number string `json:"number"`
}

type StatusChange struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type StatusChanged struct {
	Status string `json:"status"`
}

type ItemStatusChanged struct {
	Status      string `json:"status"`
	Fulfillment string `json:"fulfillment"`
}

type Reason struct {
	Reason string `json:"reason"`
	Note   string `json:"note"`
}

type ProofInput struct {
	Kind      string `json:"kind"`
	Reference string `json:"reference"`
}

type DeliveryStatusChange struct {
	Status  string      `json:"status"`
	Station string      `json:"station"`
	Proof   *ProofInput `json:"proof"`
}

type DeliveryStatus struct {
	Status     string               `json:"status"`
	Stage      string               `json:"stage"`
	Timestamps map[string]time.Time `json:"timestamps"`
	Credited   bool                 `json:"credited"`
}

type OrderSummary struct {
	ID           string `json:"id"`
	Number       string `json:"number"`
	Status       string `json:"status"`
	Stage        string `json:"stage"`
	DriverID     string `json:"driverId,omitempty"`
	DeliveryType string `json:"deliveryType"`
	Address      string `json:"address,omitempty"`
	Station      string `json:"station,omitempty"`
	FinalAmount  int64  `json:"finalAmount"`
	Payment      string `json:"paymentMethod"`
}

type Claimed struct {
	Order                 OrderSummary `json:"order"`
	EstimatedDeliveryTime time.Time    `json:"estimatedDeliveryTime"`
}

type OTPIssued struct {
	OTP              string `json:"otp"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
}

type OTPInput struct {
	OTP string `json:"otp"`
}

type NewAgent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type NewProduct struct {
	Name string `json:"name"`
}

type AvailableOrder struct {
	ID           string    `json:"id"`
	Number       string    `json:"number"`
	DeliveryType string    `json:"deliveryType"`
	Address      string    `json:"address,omitempty"`
	Station      string    `json:"station,omitempty"`
	ItemCount    int       `json:"itemCount"`
	FinalAmount  int64     `json:"finalAmount"`
	Payment      string    `json:"paymentMethod"`
	CreatedAt    time.Time `json:"createdAt"`
}

type OrderItem struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	SellerID  string `json:"sellerId"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	Status    string `json:"status"`
	Note      string `json:"note,omitempty"`
}

type HistoryEntry struct {
	Label     string    `json:"label"`
	At        time.Time `json:"at"`
	ActorID   string    `json:"actorId"`
	ActorRole string    `json:"actorRole"`
	Note      string    `json:"note,omitempty"`
}

type OrderDetails struct {
	ID            string               `json:"id"`
	Number        string               `json:"number"`
	CustomerID    string               `json:"customerId"`
	Status        string               `json:"status"`
	Fulfillment   string               `json:"fulfillment"`
	Stage         string               `json:"stage"`
	DriverID      string               `json:"driverId,omitempty"`
	DeliveryType  string               `json:"deliveryType"`
	Address       string               `json:"address,omitempty"`
	Station       string               `json:"station,omitempty"`
	ActualStation string               `json:"actualStation,omitempty"`
	Subtotal      int64                `json:"subtotal"`
	Tax           int64                `json:"tax"`
	DeliveryFee   int64                `json:"deliveryFee"`
	Discount      int64                `json:"discount"`
	FinalAmount   int64                `json:"finalAmount"`
	PaymentMethod string               `json:"paymentMethod"`
	PaymentStatus string               `json:"paymentStatus"`
	OTPPending    bool                 `json:"otpPending"`
	OTPVerified   bool                 `json:"otpVerified"`
	ProofKind     string               `json:"proofKind,omitempty"`
	Items         []OrderItem          `json:"items"`
	History       []HistoryEntry       `json:"history"`
	Timestamps    map[string]time.Time `json:"timestamps"`
	CreatedAt     time.Time            `json:"createdAt"`
}

type Agent struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Available            bool    `json:"available"`
	ActiveOrderID        string  `json:"activeOrderId,omitempty"`
	TodayEarnings        int64   `json:"todayEarnings"`
	TotalEarnings        int64   `json:"totalEarnings"`
	PendingEarnings      int64   `json:"pendingEarnings"`
	CashCollected        int64   `json:"cashCollected"`
	TotalDeliveries      int     `json:"totalDeliveries"`
	SuccessfulDeliveries int     `json:"successfulDeliveries"`
	CompletionRate       float64 `json:"completionRate"`
	Assignments          int     `json:"assignments"`
}

func summaryOf(o *order.Order) OrderSummary {
	summary := OrderSummary{
		ID:           o.ID().String(),
		Number:       o.Number(),
		Status:       o.Status().String(),
		Stage:        o.Stage().String(),
		DeliveryType: string(o.Delivery().Type()),
		Address:      o.Delivery().Address(),
		Station:      o.Delivery().Station(),
		FinalAmount:  o.Totals().Final(),
		Payment:      string(o.Payment().Method()),
	}
	if driverID := o.DriverID(); driverID != nil {
		summary.DriverID = driverID.String()
	}
	return summary
}

func availableOrdersOf(list []queries.AvailableOrder) []AvailableOrder {
	response := make([]AvailableOrder, len(list))
	for i, o := range list {
		response[i] = AvailableOrder{
			ID:           o.ID.String(),
			Number:       o.Number,
			DeliveryType: string(o.DeliveryType),
			Address:      o.Address,
			Station:      o.Station,
			ItemCount:    o.ItemCount,
			FinalAmount:  o.FinalAmount,
			Payment:      string(o.Payment),
			CreatedAt:    o.CreatedAt,
		}
	}
	return response
}

func orderDetailsOf(v queries.OrderView) OrderDetails {
	details := OrderDetails{
		ID:            v.ID.String(),
		Number:        v.Number,
		CustomerID:    v.CustomerID.String(),
		Status:        v.Status,
		Fulfillment:   v.Fulfillment,
		Stage:         v.Stage,
		DeliveryType:  string(v.DeliveryType),
		Address:       v.Address,
		Station:       v.Station,
		ActualStation: v.ActualStation,
		Subtotal:      v.Subtotal,
		Tax:           v.Tax,
		DeliveryFee:   v.DeliveryFee,
		Discount:      v.Discount,
		FinalAmount:   v.FinalAmount,
		PaymentMethod: string(v.PaymentMethod),
		PaymentStatus: v.PaymentStatus,
		OTPPending:    v.OTPPending,
		OTPVerified:   v.OTPVerified,
		ProofKind:     v.ProofKind,
		Items:         make([]OrderItem, len(v.Items)),
		History:       make([]HistoryEntry, len(v.History)),
		Timestamps:    v.Timestamps,
		CreatedAt:     v.CreatedAt,
	}
	if v.DriverID != nil {
		details.DriverID = v.DriverID.String()
	}
	for i, item := range v.Items {
		details.Items[i] = OrderItem{
			ID:        item.ID.String(),
			ProductID: item.ProductID.String(),
			SellerID:  item.SellerID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Status:    item.Status,
			Note:      item.Note,
		}
	}
	for i, entry := range v.History {
		details.History[i] = HistoryEntry{
			Label:     entry.Label,
			At:        entry.At,
			ActorID:   entry.ActorID.String(),
			ActorRole: entry.ActorRole,
			Note:      entry.Note,
		}
	}
	return details
}

func agentOf(a queries.GetAgentQueryResponse) Agent {
	response := Agent{
		ID:                   a.ID.String(),
		Name:                 a.Name,
		Available:            a.Available,
		TodayEarnings:        a.TodayEarnings,
		TotalEarnings:        a.TotalEarnings,
		PendingEarnings:      a.PendingEarnings,
		CashCollected:        a.CashCollected,
		TotalDeliveries:      a.TotalDeliveries,
		SuccessfulDeliveries: a.SuccessfulDeliveries,
		CompletionRate:       a.CompletionRate,
		Assignments:          a.Assignments,
	}
	if a.ActiveOrderID != nil {
		response.ActiveOrderID = a.ActiveOrderID.String()
	}
	return response
}
