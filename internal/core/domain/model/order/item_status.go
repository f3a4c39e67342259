package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ItemStatus is the fulfillment stage of one line item, owned by the item's seller.
type ItemStatus int

const (
	ItemUnknown ItemStatus = iota
	ItemPending
	ItemAccepted
	ItemPreparing
	ItemReady
	ItemDelivered
	ItemCancelled
)

func getItemStatusStrings() map[ItemStatus]string {
	return map[ItemStatus]string{
		ItemUnknown:   "unknown",
		ItemPending:   "pending",
		ItemAccepted:  "accepted",
		ItemPreparing: "preparing",
		ItemReady:     "ready",
		ItemDelivered: "delivered",
		ItemCancelled: "cancelled",
	}
}

// ParseItemStatus accepts only the permitted item-status names.
func ParseItemStatus(s string) (ItemStatus, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for status, str := range getItemStatusStrings() {
		if status != ItemUnknown && str == name {
			return status, nil
		}
	}
	return ItemUnknown, errs.NewValueIsInvalidErrorWithCause("itemStatus",
		fmt.Errorf("%q is not one of pending, accepted, preparing, ready, delivered, cancelled", s))
}

func (s ItemStatus) Validate() error {
	if s <= ItemUnknown || s > ItemCancelled {
		return errs.NewValueIsInvalidErrorWithCause("itemStatus", fmt.Errorf("%d is not a valid item status", s))
	}
	return nil
}

func (s ItemStatus) String() string {
	if str, ok := getItemStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsActive reports the in-progress states that make an order partially fulfilled.
func (s ItemStatus) IsActive() bool {
	return s == ItemAccepted || s == ItemPreparing || s == ItemReady
}

// CanBeSetBy tells whether a role may ever write this item status.
// Ownership of the concrete item is checked separately by the Order.
func (s ItemStatus) CanBeSetBy(role kernel.Role) bool {
	if s.Validate() != nil {
		return false
	}
	return role == kernel.RoleSeller || role == kernel.RoleAdmin
}

// Rollup is the canonical fulfillment summary derived from the item statuses.
type Rollup int

const (
	// Unchanged means the items give no reason to move the aggregate status.
	Unchanged Rollup = iota
	PartiallyFulfilled
	Fulfilled
)

func (r Rollup) String() string {
	switch r {
	case PartiallyFulfilled:
		return "partially_fulfilled"
	case Fulfilled:
		return "fulfilled"
	default:
		return "unchanged"
	}
}

// ParseRollup is the inverse of Rollup.String.
func ParseRollup(s string) (Rollup, error) {
	switch s {
	case "", "unchanged":
		return Unchanged, nil
	case "partially_fulfilled":
		return PartiallyFulfilled, nil
	case "fulfilled":
		return Fulfilled, nil
	default:
		return Unchanged, errs.NewValueIsInvalidErrorWithCause("fulfillment", fmt.Errorf("%q is not a valid rollup", s))
	}
}

// TargetStatus maps a rollup onto the aggregate status it drives the order towards.
//
//	PartiallyFulfilled -> PREPARING
//	Fulfilled          -> READY_FOR_PICKUP
//	Unchanged          -> no target
func (r Rollup) TargetStatus() (Status, bool) {
	switch r {
	case PartiallyFulfilled:
		return Preparing, true
	case Fulfilled:
		return ReadyForPickup, true
	default:
		return Unknown, false
	}
}

// ComputeAggregateStatus is a pure function of the item-status multiset.
// Only an order whose every item is delivered is fulfilled; cancelled or pending lines
// contribute nothing.
func ComputeAggregateStatus(statuses []ItemStatus) Rollup {
	delivered, active := 0, 0
	for _, s := range statuses {
		switch {
		case s == ItemDelivered:
			delivered++
		case s.IsActive():
			active++
		}
	}

	if len(statuses) > 0 && delivered == len(statuses) {
		return Fulfilled
	}
	if active > 0 {
		return PartiallyFulfilled
	}
	return Unchanged
}
