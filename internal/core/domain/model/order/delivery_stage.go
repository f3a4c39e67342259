package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// DeliveryStage is the driver-visible sub-state of an order that is out for delivery.
type DeliveryStage string

const (
	StageNone           DeliveryStage = "NONE"
	StageAssigned       DeliveryStage = "ASSIGNED"
	StagePickedUp       DeliveryStage = "PICKED_UP"
	StageReachedStation DeliveryStage = "REACHED_STATION"
	StageDelivered      DeliveryStage = "DELIVERED"
)

func ParseDeliveryStage(s string) (DeliveryStage, error) {
	switch stage := DeliveryStage(s); stage {
	case StageNone, StageAssigned, StagePickedUp, StageReachedStation, StageDelivered:
		return stage, nil
	case "":
		return StageNone, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("deliveryStage", fmt.Errorf("%q is not a delivery stage", s))
	}
}

func (s DeliveryStage) String() string {
	return string(s)
}
