package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem or RestoreItem")

const maxItemQuantity = 10_000

// Item is one line of an order. Its status is owned by the seller of its product.
type Item struct {
	id        kernel.UUID
	productID kernel.UUID
	sellerID  kernel.UUID
	quantity  int
	unitPrice int64
	status    ItemStatus
	note      string
	guard     guard.ConstructorGuard
}

// NewItem creates a line item in the pending state.
func NewItem(id, productID, sellerID kernel.UUID, quantity int, unitPrice int64, note string) (*Item, error) {
	return RestoreItem(id, productID, sellerID, quantity, unitPrice, ItemPending, note)
}

// RestoreItem rebuilds an item read from storage.
func RestoreItem(
	id, productID, sellerID kernel.UUID,
	quantity int,
	unitPrice int64,
	status ItemStatus,
	note string,
) (*Item, error) {
	item := &Item{
		note:  note,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setID(id),
		item.setProduct(productID),
		item.setSeller(sellerID),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	item.status = status

	return item, nil
}

func (i *Item) Validate() error {
	if i == nil {
		return ErrItemIsNotConstructed
	}
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i *Item) ID() kernel.UUID        { return i.id }
func (i *Item) ProductID() kernel.UUID { return i.productID }
func (i *Item) SellerID() kernel.UUID  { return i.sellerID }
func (i *Item) Quantity() int          { return i.quantity }
func (i *Item) UnitPrice() int64       { return i.unitPrice }
func (i *Item) Status() ItemStatus     { return i.status }
func (i *Item) Note() string           { return i.note }

// LineTotal is quantity × unit price in minor units.
func (i *Item) LineTotal() int64 {
	return int64(i.quantity) * i.unitPrice
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setProduct(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("productId", err)
	}
	i.productID = id
	return nil
}

func (i *Item) setSeller(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("sellerId", err)
	}
	i.sellerID = id
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 || quantity > maxItemQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, maxItemQuantity)
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(price int64) error {
	if price < 0 {
		return errs.NewValueIsInvalidErrorWithCause("unitPrice", fmt.Errorf("%d is negative", price))
	}
	i.unitPrice = price
	return nil
}
