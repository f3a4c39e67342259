package services

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// EarningsLedger credits agents for deliveries.
type EarningsLedger struct {
	fee int64
}

// NewEarningsLedger creates a ledger paying fee minor units per delivered order.
func NewEarningsLedger(fee int64) (EarningsLedger, error) {
	if fee < 0 {
		return EarningsLedger{}, errs.NewValueIsInvalidErrorWithCause("deliveryFee", fmt.Errorf("%d is negative", fee))
	}
	return EarningsLedger{fee: fee}, nil
}

func (l EarningsLedger) Fee() int64 {
	return l.fee
}

// RecordDelivery credits the driver of a delivered order and releases it.
// A second call for the same order neither credits nor fails.
func (l EarningsLedger) RecordDelivery(a *agent.Agent, o *order.Order, at time.Time) (bool, error) {
	if err := errors.Join(a.Validate(), o.Validate()); err != nil {
		return false, err
	}
	if !o.IsAssignedTo(a.ID()) {
		return false, errs.NewUnauthorizedError(a.ID().String(), "order "+o.ID().String())
	}
	if o.Status() != order.Delivered {
		return false, errs.NewInvalidTransitionErrorWithCause("ledger", o.Status().String(), order.Delivered.String(),
			errors.New("only delivered orders are credited"))
	}

	var cash int64
	if o.Payment().IsCashOnDelivery() {
		cash = o.Totals().Final()
	}

	credited, err := a.CreditDelivery(o.ID(), l.fee, cash, at)
	if err != nil {
		return false, err
	}
	a.ReleaseOrder(o.ID())
	return credited, nil
}

// RecordFailedDelivery counts an aborted delivery against the driver and releases it.
func (l EarningsLedger) RecordFailedDelivery(a *agent.Agent, o *order.Order) error {
	if err := errors.Join(a.Validate(), o.Validate()); err != nil {
		return err
	}
	if !a.ReleaseOrder(o.ID()) {
		return nil
	}
	a.RecordFailedDelivery()
	return nil
}
