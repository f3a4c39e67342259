package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	customer kernel.Actor
	seller1  kernel.Actor
	seller2  kernel.Actor
	agent    kernel.Actor
	admin    kernel.Actor
	item1    kernel.UUID
	item2    kernel.UUID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	return fixture{
		customer: mustActor(t, kernel.RoleCustomer),
		seller1:  mustActor(t, kernel.RoleSeller),
		seller2:  mustActor(t, kernel.RoleSeller),
		agent:    mustActor(t, kernel.RoleAgent),
		admin:    mustActor(t, kernel.RoleAdmin),
		item1:    kernel.NewUUID(),
		item2:    kernel.NewUUID(),
	}
}

func mustActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return actor
}

func (f fixture) items(t *testing.T) []*order.Item {
	t.Helper()
	first, err := order.NewItem(f.item1, kernel.NewUUID(), f.seller1.ID(), 2, 500, "")
	require.NoError(t, err)
	second, err := order.NewItem(f.item2, kernel.NewUUID(), f.seller2.ID(), 1, 250, "gift wrap")
	require.NoError(t, err)
	return []*order.Item{first, second}
}

// newOrder builds a PENDING order of 2×500 + 1×250 with tax 100 and delivery fee 50.
func (f fixture) newOrder(t *testing.T, deliveryType order.DeliveryType) *order.Order {
	t.Helper()

	info, err := order.NewDeliveryInfo(deliveryType, "Ann", "+100200300", "1 Main St", "Central")
	require.NoError(t, err)
	totals, err := order.NewTotals(1250, 100, 50, 0, 1400)
	require.NoError(t, err)
	payment, err := order.NewPayment(order.PaymentCOD, "PENDING")
	require.NoError(t, err)
	number, err := order.GenerateNumber(baseTime)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), number, f.customer.ID(), f.items(t), info, totals, payment, baseTime)
	require.NoError(t, err)
	return o
}

// readyOrder returns a confirmed order whose items are all delivered by their sellers.
func (f fixture) readyOrder(t *testing.T, deliveryType order.DeliveryType) *order.Order {
	t.Helper()
	o := f.newOrder(t, deliveryType)
	require.NoError(t, o.ChangeStatus(order.Confirmed, f.seller1, "", baseTime))
	require.NoError(t, o.SetItemStatus(f.item1, order.ItemDelivered, f.seller1, "", baseTime.Add(time.Minute)))
	require.NoError(t, o.SetItemStatus(f.item2, order.ItemDelivered, f.seller2, "", baseTime.Add(2*time.Minute)))
	require.Equal(t, order.ReadyForPickup, o.Status())
	return o
}

func (f fixture) claimedOrder(t *testing.T, deliveryType order.DeliveryType) *order.Order {
	t.Helper()
	o := f.readyOrder(t, deliveryType)
	require.NoError(t, o.Claim(f.agent, baseTime.Add(3*time.Minute)))
	return o
}

// plainMatcher treats the stored hash as the code itself.
type plainMatcher struct{}

func (plainMatcher) Matches(hash []byte, code string) bool {
	return string(hash) == code
}

func challenge(t *testing.T, code string, expiresAt time.Time) order.OTPChallenge {
	t.Helper()
	c, err := order.NewOTPChallenge([]byte(code), expiresAt)
	require.NoError(t, err)
	return c
}
