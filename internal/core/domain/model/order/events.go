package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

type EventType string

const (
	EventAccepted  EventType = "order.accepted"
	EventPickedUp  EventType = "order.picked_up"
	EventDelivered EventType = "order.delivered"
)

// Event is raised by the aggregate and published only after the surrounding transaction commits.
type Event struct {
	Type       EventType
	OrderID    kernel.UUID
	OccurredAt time.Time
}
