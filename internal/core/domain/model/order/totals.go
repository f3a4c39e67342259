package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Totals are monetary amounts in integer minor currency units.
type Totals struct {
	subtotal int64
	tax      int64
	delivery int64
	discount int64
	final    int64
}

// NewTotals validates final == subtotal + tax + delivery - discount and that no amount is negative.
func NewTotals(subtotal, tax, delivery, discount, final int64) (Totals, error) {
	var negErrs []error
	for name, v := range map[string]int64{
		"subtotal": subtotal, "tax": tax, "delivery": delivery, "discount": discount, "final": final,
	} {
		if v < 0 {
			negErrs = append(negErrs, errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%d is negative", v)))
		}
	}
	if err := errors.Join(negErrs...); err != nil {
		return Totals{}, err
	}

	if expected := subtotal + tax + delivery - discount; final != expected {
		return Totals{}, errs.NewValueIsInvalidErrorWithCause("totals",
			fmt.Errorf("final %d does not equal subtotal+tax+delivery-discount = %d", final, expected))
	}

	return Totals{subtotal: subtotal, tax: tax, delivery: delivery, discount: discount, final: final}, nil
}

func (t Totals) Subtotal() int64 { return t.subtotal }
func (t Totals) Tax() int64      { return t.tax }
func (t Totals) Delivery() int64 { return t.delivery }
func (t Totals) Discount() int64 { return t.discount }
func (t Totals) Final() int64    { return t.final }
