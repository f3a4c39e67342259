package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func mustActor(t *testing.T, id kernel.UUID, role kernel.Role) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(id, role)
	require.NoError(t, err)
	return actor
}

// readyOrder returns a single-seller order in READY_FOR_PICKUP with final amount 1150.
func readyOrder(t *testing.T, method order.PaymentMethod) *order.Order {
	t.Helper()

	seller := mustActor(t, kernel.NewUUID(), kernel.RoleSeller)
	itemID := kernel.NewUUID()
	item, err := order.NewItem(itemID, kernel.NewUUID(), seller.ID(), 2, 500, "")
	require.NoError(t, err)
	info, err := order.NewDeliveryInfo(order.DeliveryHome, "Ann", "+100200300", "1 Main St", "")
	require.NoError(t, err)
	totals, err := order.NewTotals(1000, 100, 50, 0, 1150)
	require.NoError(t, err)
	payment, err := order.NewPayment(method, "PENDING")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), "ORD-20250301-0000ABCD", kernel.NewUUID(),
		[]*order.Item{item}, info, totals, payment, now)
	require.NoError(t, err)
	require.NoError(t, o.ChangeStatus(order.Confirmed, seller, "", now))
	require.NoError(t, o.SetItemStatus(itemID, order.ItemDelivered, seller, "", now))
	require.Equal(t, order.ReadyForPickup, o.Status())
	return o
}

func newAgent(t *testing.T) *agent.Agent {
	t.Helper()
	a, err := agent.NewAgent(kernel.NewUUID(), "Rider")
	require.NoError(t, err)
	return a
}

// deliveredOrder runs the whole handover with a photo proof.
func deliveredOrder(t *testing.T, a *agent.Agent, method order.PaymentMethod) *order.Order {
	t.Helper()
	o := readyOrder(t, method)
	driver := mustActor(t, a.ID(), kernel.RoleAgent)
	proof, err := order.NewProof(order.ProofPhoto, "s3://proofs/1.jpg")
	require.NoError(t, err)

	require.NoError(t, o.Claim(driver, now))
	require.NoError(t, a.TakeOrder(o.ID(), now))
	require.NoError(t, o.MarkPickedUp(driver, now.Add(time.Minute)))
	require.NoError(t, o.Deliver(driver, proof, now.Add(20*time.Minute)))
	return o
}
