package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	customer kernel.Actor
	seller   kernel.Actor
	driver   kernel.Actor
	admin    kernel.Actor
	itemID   kernel.UUID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	return fixture{
		customer: mustActor(t, kernel.RoleCustomer),
		seller:   mustActor(t, kernel.RoleSeller),
		driver:   mustActor(t, kernel.RoleAgent),
		admin:    mustActor(t, kernel.RoleAdmin),
		itemID:   kernel.NewUUID(),
	}
}

func mustActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return actor
}

// pendingOrder is a HOME, cash-on-delivery order with one line of 2×500.
func (f fixture) pendingOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := order.NewItem(f.itemID, kernel.NewUUID(), f.seller.ID(), 2, 500, "")
	require.NoError(t, err)
	info, err := order.NewDeliveryInfo(order.DeliveryHome, "Ann", "+100200300", "1 Main St", "")
	require.NoError(t, err)
	totals, err := order.NewTotals(1000, 0, 50, 0, 1050)
	require.NoError(t, err)
	payment, err := order.NewPayment(order.PaymentCOD, "PENDING")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), "ORD-20250301-00C0FFEE", f.customer.ID(),
		[]*order.Item{item}, info, totals, payment, placedAt)
	require.NoError(t, err)
	return o
}

func (f fixture) readyOrder(t *testing.T) *order.Order {
	t.Helper()
	o := f.pendingOrder(t)
	require.NoError(t, o.ChangeStatus(order.Confirmed, f.seller, "", placedAt))
	require.NoError(t, o.SetItemStatus(f.itemID, order.ItemDelivered, f.seller, "", placedAt))
	return o
}

// claimedOrder returns an order out for delivery together with its busy driver.
func (f fixture) claimedOrder(t *testing.T) (*order.Order, *agent.Agent) {
	t.Helper()
	o := f.readyOrder(t)
	a := f.agent(t)
	require.NoError(t, o.Claim(f.driver, placedAt))
	require.NoError(t, a.TakeOrder(o.ID(), placedAt))
	return o, a
}

func (f fixture) pickedUpOrder(t *testing.T) (*order.Order, *agent.Agent) {
	t.Helper()
	o, a := f.claimedOrder(t)
	require.NoError(t, o.MarkPickedUp(f.driver, placedAt))
	return o, a
}

// copyOf restores an independent copy of o, as a second read of the same row would.
func (f fixture) copyOf(t *testing.T, o *order.Order) *order.Order {
	t.Helper()
	c, err := order.RestoreOrder(order.Snapshot{
		ID:          o.ID(),
		Number:      o.Number(),
		CustomerID:  o.CustomerID(),
		Items:       o.Items(),
		Delivery:    o.Delivery(),
		Totals:      o.Totals(),
		Payment:     o.Payment(),
		Status:      o.Status(),
		Fulfillment: o.Fulfillment(),
		DriverID:    o.DriverID(),
		Stage:       o.Stage(),
		History:     o.History(),
		Timestamps:  o.Timestamps(),
		CreatedAt:   o.CreatedAt(),
		Version:     o.Version(),
	})
	require.NoError(t, err)
	return c
}

func (f fixture) agent(t *testing.T) *agent.Agent {
	t.Helper()
	a, err := agent.NewAgent(f.driver.ID(), "Rider")
	require.NoError(t, err)
	return a
}
