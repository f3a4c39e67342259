package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderDispatcher_Dispatch(t *testing.T) {
	t.Run("should assign ready order and compute estimate", func(t *testing.T) {
		o := readyOrder(t, order.PaymentCOD)
		a := newAgent(t)
		dispatcher := services.NewOrderDispatcher(30 * time.Minute)

		eta, err := dispatcher.Dispatch(o, a, now)

		require.NoError(t, err)
		assert.Equal(t, now.Add(30*time.Minute), eta)
		assert.Equal(t, order.OutForDelivery, o.Status())
		assert.Equal(t, order.StageAssigned, o.Stage())
		assert.True(t, o.IsAssignedTo(a.ID()))
		require.NotNil(t, a.ActiveOrderID())
		assert.True(t, a.ActiveOrderID().IsEqual(o.ID()))
		assert.False(t, a.IsAvailable())
		assert.Len(t, a.NewAssignments(), 1)
	})

	t.Run("should fall back to default estimate", func(t *testing.T) {
		dispatcher := services.NewOrderDispatcher(0)

		assert.Equal(t, now.Add(services.DefaultEstimatedDelivery), dispatcher.EstimateDelivery(now))
	})

	t.Run("should reject agent with another active order", func(t *testing.T) {
		a := newAgent(t)
		dispatcher := services.NewOrderDispatcher(time.Hour)
		_, err := dispatcher.Dispatch(readyOrder(t, order.PaymentCOD), a, now)
		require.NoError(t, err)

		second := readyOrder(t, order.PaymentCOD)
		_, err = dispatcher.Dispatch(second, a, now)

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, order.ReadyForPickup, second.Status())
		assert.Nil(t, second.DriverID())
	})

	t.Run("should report conflict when order is already taken", func(t *testing.T) {
		o := readyOrder(t, order.PaymentCOD)
		dispatcher := services.NewOrderDispatcher(time.Hour)
		_, err := dispatcher.Dispatch(o, newAgent(t), now)
		require.NoError(t, err)

		loser := newAgent(t)
		_, err = dispatcher.Dispatch(o, loser, now)

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Nil(t, loser.ActiveOrderID())
		assert.True(t, loser.IsAvailable())
	})

	t.Run("should return error for nil aggregates", func(t *testing.T) {
		_, err := services.NewOrderDispatcher(time.Hour).Dispatch(nil, nil, now)

		require.Error(t, err)
	})
}

func TestOrderDispatcher_EnsureAssigned(t *testing.T) {
	dispatcher := services.NewOrderDispatcher(time.Hour)

	t.Run("reapplies agent side of the claim", func(t *testing.T) {
		o := readyOrder(t, order.PaymentCOD)
		winner := newAgent(t)
		_, err := dispatcher.Dispatch(o, winner, now)
		require.NoError(t, err)

		stale := newAgent(t)
		require.Error(t, dispatcher.EnsureAssigned(o, stale, now))

		require.NoError(t, dispatcher.EnsureAssigned(o, winner, now))
		assert.Len(t, winner.NewAssignments(), 1)
	})
}
