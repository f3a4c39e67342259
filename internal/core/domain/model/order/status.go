package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Status is the aggregate lifecycle value of an order.
//
// Main chain (direct edges only):
//
//	PENDING ──> CONFIRMED ──> PREPARING ──> READY_FOR_PICKUP ──> OUT_FOR_DELIVERY ──> DELIVERED ──> RETURNED
//	   │            │             │                │                    │
//	   └────────────┴─────────────┴────────────────┴────────────────────┴──> CANCELLED | REJECTED | FAILED_PAYMENT
//
// DELIVERED, CANCELLED, REJECTED, RETURNED and FAILED_PAYMENT are terminal; RETURNED is the
// single exit from DELIVERED.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota
	Pending
	Confirmed
	Preparing
	ReadyForPickup
	OutForDelivery
	Delivered
	Cancelled
	Rejected
	Returned
	FailedPayment
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "UNKNOWN",
		Pending:        "PENDING",
		Confirmed:      "CONFIRMED",
		Preparing:      "PREPARING",
		ReadyForPickup: "READY_FOR_PICKUP",
		OutForDelivery: "OUT_FOR_DELIVERY",
		Delivered:      "DELIVERED",
		Cancelled:      "CANCELLED",
		Rejected:       "REJECTED",
		Returned:       "RETURNED",
		FailedPayment:  "FAILED_PAYMENT",
	}
}

// mainChain lists the forward path an order travels when nothing goes wrong.
var mainChain = []Status{Pending, Confirmed, Preparing, ReadyForPickup, OutForDelivery, Delivered}

// ParseStatus converts the persisted or transported name into a Status.
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid order status", s))
}

func (s Status) Validate() error {
	if s <= Unknown || s > FailedPayment {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status closes the order lifecycle.
func (s Status) IsTerminal() bool {
	switch s {
	case Delivered, Cancelled, Rejected, Returned, FailedPayment:
		return true
	default:
		return false
	}
}

// IsCancelFamily reports whether the status is one of the abort outcomes.
func (s Status) IsCancelFamily() bool {
	return s == Cancelled || s == Rejected || s == FailedPayment
}

// RequiresDriver reports whether an order in this status must reference a driver.
func (s Status) RequiresDriver() bool {
	return s == OutForDelivery || s == Delivered || s == Returned
}

// chainIndex returns the position on the main chain or -1 when the status is off the chain.
func (s Status) chainIndex() int {
	for i, status := range mainChain {
		if status == s {
			return i
		}
	}
	return -1
}

// next returns the direct successor on the main chain.
func (s Status) next() (Status, bool) {
	i := s.chainIndex()
	if i < 0 || i+1 >= len(mainChain) {
		return Unknown, false
	}
	return mainChain[i+1], true
}

// CanTransitionTo checks the status graph only; driver and proof preconditions
// are enforced by the Order.
func (s Status) CanTransitionTo(to Status) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}

	if s.IsTerminal() {
		if s == Delivered && to == Returned {
			return nil
		}
		return errs.NewInvalidTransitionErrorWithCause("order", s.String(), to.String(),
			fmt.Errorf("%s is terminal", s))
	}

	switch {
	case to == s:
		return nil
	case to.IsCancelFamily():
		return nil
	case to == Returned:
		return errs.NewInvalidTransitionErrorWithCause("order", s.String(), to.String(),
			fmt.Errorf("only delivered orders can be returned"))
	}

	if next, ok := s.next(); ok && next == to {
		return nil
	}
	return errs.NewInvalidTransitionError("order", s.String(), to.String())
}
