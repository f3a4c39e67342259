package queries_test

import (
	"context"
	"iter"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) Claim(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) AppendHistory(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) ListAvailable(ctx context.Context) iter.Seq2[*order.Order, error] {
	return m.Called(ctx).Get(0).(iter.Seq2[*order.Order, error])
}

func (m *MockOrderRepository) GetAllOutForDelivery(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func mustActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return actor
}

// readyOrder builds an unassigned READY_FOR_PICKUP order sold by seller.
func readyOrder(t *testing.T, customer, seller kernel.Actor, createdAt time.Time) *order.Order {
	t.Helper()
	itemID := kernel.NewUUID()
	item, err := order.NewItem(itemID, kernel.NewUUID(), seller.ID(), 1, 800, "")
	require.NoError(t, err)
	info, err := order.NewDeliveryInfo(order.DeliveryStation, "Ann", "+100200300", "", "Central")
	require.NoError(t, err)
	totals, err := order.NewTotals(800, 0, 0, 0, 800)
	require.NoError(t, err)
	payment, err := order.NewPayment(order.PaymentCOD, "PENDING")
	require.NoError(t, err)
	number, err := order.GenerateNumber(createdAt)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), number, customer.ID(),
		[]*order.Item{item}, info, totals, payment, createdAt)
	require.NoError(t, err)
	require.NoError(t, o.ChangeStatus(order.Confirmed, seller, "", createdAt))
	require.NoError(t, o.SetItemStatus(itemID, order.ItemDelivered, seller, "", createdAt))
	return o
}

// sequence yields the orders, failing with err once they are exhausted when err is set.
func sequence(orders []*order.Order, err error) iter.Seq2[*order.Order, error] {
	return func(yield func(*order.Order, error) bool) {
		for _, o := range orders {
			if !yield(o, nil) {
				return
			}
		}
		if err != nil {
			yield(nil, err)
		}
	}
}
