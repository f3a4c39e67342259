// Package orderrepo persists the order aggregate. An order spans three tables: the order row
// itself, its line items and its append-only history.
package orderrepo

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders row. OTP columns are set only while a challenge is pending.
type OrderDTO struct {
	ID               uuid.UUID            `gorm:"type:uuid;primaryKey"`
	Number           string               `gorm:"column:number"`
	CustomerID       uuid.UUID            `gorm:"type:uuid;column:customer_id"`
	DeliveryType     string               `gorm:"column:delivery_type"`
	ContactName      string               `gorm:"column:contact_name"`
	ContactPhone     string               `gorm:"column:contact_phone"`
	Address          string               `gorm:"column:address"`
	Station          string               `gorm:"column:station"`
	Subtotal         int64                `gorm:"column:subtotal"`
	Tax              int64                `gorm:"column:tax"`
	DeliveryFee      int64                `gorm:"column:delivery_fee"`
	Discount         int64                `gorm:"column:discount"`
	FinalAmount      int64                `gorm:"column:final_amount"`
	PaymentMethod    string               `gorm:"column:payment_method"`
	PaymentStatus    string               `gorm:"column:payment_status"`
	Status           string               `gorm:"column:status"`
	Fulfillment      string               `gorm:"column:fulfillment"`
	AssignedDriverID *uuid.UUID           `gorm:"type:uuid;column:assigned_driver_id"`
	DeliveryStage    string               `gorm:"column:delivery_stage"`
	OTPHash          []byte               `gorm:"column:otp_hash"`
	OTPExpiresAt     *time.Time           `gorm:"column:otp_expires_at"`
	OTPVerified      bool                 `gorm:"column:otp_verified"`
	ProofKind        string               `gorm:"column:proof_kind"`
	ProofReference   string               `gorm:"column:proof_reference"`
	ActualStation    string               `gorm:"column:actual_station"`
	Timestamps       map[string]time.Time `gorm:"column:timestamps;type:jsonb;serializer:json"`
	CreatedAt        time.Time            `gorm:"column:created_at"`
	Version          int64                `gorm:"column:version"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type ItemDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;column:order_id"`
	Position  int       `gorm:"column:position"`
	ProductID uuid.UUID `gorm:"type:uuid;column:product_id"`
	SellerID  uuid.UUID `gorm:"type:uuid;column:seller_id"`
	Quantity  int       `gorm:"column:quantity"`
	UnitPrice int64     `gorm:"column:unit_price"`
	Status    string    `gorm:"column:status"`
	Note      string    `gorm:"column:note"`
}

func (ItemDTO) TableName() string {
	return "order_items"
}

// HistoryDTO rows are only ever inserted; the serial id keeps their order.
type HistoryDTO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"type:uuid;column:order_id"`
	Label     string    `gorm:"column:label"`
	At        time.Time `gorm:"column:at"`
	ActorID   uuid.UUID `gorm:"type:uuid;column:actor_id"`
	ActorRole string    `gorm:"column:actor_role"`
	Note      string    `gorm:"column:note"`
}

func (HistoryDTO) TableName() string {
	return "order_history"
}

func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:            o.ID().Bytes(),
		Number:        o.Number(),
		CustomerID:    o.CustomerID().Bytes(),
		DeliveryType:  string(o.Delivery().Type()),
		ContactName:   o.Delivery().ContactName(),
		ContactPhone:  o.Delivery().ContactPhone(),
		Address:       o.Delivery().Address(),
		Station:       o.Delivery().Station(),
		Subtotal:      o.Totals().Subtotal(),
		Tax:           o.Totals().Tax(),
		DeliveryFee:   o.Totals().Delivery(),
		Discount:      o.Totals().Discount(),
		FinalAmount:   o.Totals().Final(),
		PaymentMethod: string(o.Payment().Method()),
		PaymentStatus: o.Payment().Status(),
		Status:        o.Status().String(),
		Fulfillment:   o.Fulfillment().String(),
		DeliveryStage: o.Stage().String(),
		OTPVerified:   o.OTPVerified(),
		ActualStation: o.ActualStation(),
		Timestamps:    o.Timestamps(),
		CreatedAt:     o.CreatedAt(),
		Version:       o.Version(),
	}

	if driverID := o.DriverID(); driverID != nil {
		raw := driverID.Bytes()
		dto.AssignedDriverID = &raw
	}
	if challenge := o.OTP(); challenge != nil {
		expiresAt := challenge.ExpiresAt()
		dto.OTPHash = challenge.Hash()
		dto.OTPExpiresAt = &expiresAt
	}
	if proof := o.Proof(); proof != nil {
		dto.ProofKind = string(proof.Kind())
		dto.ProofReference = proof.Reference()
	}

	return dto
}

func itemsFromDomain(o *order.Order) []ItemDTO {
	items := o.Items()
	dtos := make([]ItemDTO, 0, len(items))
	for position, item := range items {
		dtos = append(dtos, ItemDTO{
			ID:        item.ID().Bytes(),
			OrderID:   o.ID().Bytes(),
			Position:  position,
			ProductID: item.ProductID().Bytes(),
			SellerID:  item.SellerID().Bytes(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
			Status:    item.Status().String(),
			Note:      item.Note(),
		})
	}
	return dtos
}

func historyFromDomain(orderID kernel.UUID, entries []order.HistoryEntry) []HistoryDTO {
	dtos := make([]HistoryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, HistoryDTO{
			OrderID:   orderID.Bytes(),
			Label:     entry.Label(),
			At:        entry.At(),
			ActorID:   entry.ActorID().Bytes(),
			ActorRole: entry.ActorRole().String(),
			Note:      entry.Note(),
		})
	}
	return dtos
}

// toDomain rebuilds the aggregate; items must be sorted by position and history by id.
func toDomain(dto OrderDTO, itemDTOs []ItemDTO, historyDTOs []HistoryDTO) (*order.Order, error) {
	snapshot := order.Snapshot{
		Number:        dto.Number,
		OTPVerified:   dto.OTPVerified,
		ActualStation: dto.ActualStation,
		Timestamps:    dto.Timestamps,
		CreatedAt:     dto.CreatedAt,
		Version:       dto.Version,
	}

	var err error
	if snapshot.ID, err = kernel.UUIDFromGoogle(dto.ID); err != nil {
		return nil, err
	}
	if snapshot.CustomerID, err = kernel.UUIDFromGoogle(dto.CustomerID); err != nil {
		return nil, err
	}
	if snapshot.Status, err = order.ParseStatus(dto.Status); err != nil {
		return nil, err
	}
	if snapshot.Fulfillment, err = order.ParseRollup(dto.Fulfillment); err != nil {
		return nil, err
	}
	if snapshot.Stage, err = order.ParseDeliveryStage(dto.DeliveryStage); err != nil {
		return nil, err
	}

	deliveryType, err := order.ParseDeliveryType(dto.DeliveryType)
	if err != nil {
		return nil, err
	}
	if snapshot.Delivery, err = order.NewDeliveryInfo(
		deliveryType, dto.ContactName, dto.ContactPhone, dto.Address, dto.Station,
	); err != nil {
		return nil, err
	}
	if snapshot.Totals, err = order.NewTotals(
		dto.Subtotal, dto.Tax, dto.DeliveryFee, dto.Discount, dto.FinalAmount,
	); err != nil {
		return nil, err
	}
	method, err := order.ParsePaymentMethod(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if snapshot.Payment, err = order.NewPayment(method, dto.PaymentStatus); err != nil {
		return nil, err
	}

	if dto.AssignedDriverID != nil {
		driverID, idErr := kernel.UUIDFromGoogle(*dto.AssignedDriverID)
		if idErr != nil {
			return nil, idErr
		}
		snapshot.DriverID = &driverID
	}
	if len(dto.OTPHash) > 0 && dto.OTPExpiresAt != nil {
		challenge, otpErr := order.NewOTPChallenge(dto.OTPHash, *dto.OTPExpiresAt)
		if otpErr != nil {
			return nil, otpErr
		}
		snapshot.OTP = &challenge
	}
	if dto.ProofKind != "" {
		proof, proofErr := order.NewProof(order.ProofKind(dto.ProofKind), dto.ProofReference)
		if proofErr != nil {
			return nil, proofErr
		}
		snapshot.Proof = &proof
	}

	if snapshot.Items, err = itemsToDomain(itemDTOs); err != nil {
		return nil, err
	}
	if snapshot.History, err = historyToDomain(historyDTOs); err != nil {
		return nil, err
	}

	return order.RestoreOrder(snapshot)
}

func itemsToDomain(dtos []ItemDTO) ([]*order.Item, error) {
	items := make([]*order.Item, 0, len(dtos))
	for _, dto := range dtos {
		id, idErr := kernel.UUIDFromGoogle(dto.ID)
		productID, productErr := kernel.UUIDFromGoogle(dto.ProductID)
		sellerID, sellerErr := kernel.UUIDFromGoogle(dto.SellerID)
		status, statusErr := order.ParseItemStatus(dto.Status)
		if err := errors.Join(idErr, productErr, sellerErr, statusErr); err != nil {
			return nil, err
		}

		item, err := order.RestoreItem(id, productID, sellerID, dto.Quantity, dto.UnitPrice, status, dto.Note)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func historyToDomain(dtos []HistoryDTO) ([]order.HistoryEntry, error) {
	entries := make([]order.HistoryEntry, 0, len(dtos))
	for _, dto := range dtos {
		actorID, err := kernel.UUIDFromGoogle(dto.ActorID)
		if err != nil {
			return nil, err
		}
		role, err := kernel.ParseRole(dto.ActorRole)
		if err != nil {
			return nil, err
		}
		entries = append(entries, order.NewHistoryEntry(dto.Label, dto.At, actorID, role, dto.Note))
	}
	return entries, nil
}
