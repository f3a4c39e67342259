package services_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEarningsLedger(t *testing.T) {
	ledger, err := services.NewEarningsLedger(300)
	require.NoError(t, err)
	assert.Equal(t, int64(300), ledger.Fee())

	_, err = services.NewEarningsLedger(-1)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestEarningsLedger_RecordDelivery(t *testing.T) {
	ledger, err := services.NewEarningsLedger(300)
	require.NoError(t, err)

	t.Run("credits fee and cash for cash on delivery", func(t *testing.T) {
		a := newAgent(t)
		o := deliveredOrder(t, a, order.PaymentCOD)

		credited, err := ledger.RecordDelivery(a, o, now)

		require.NoError(t, err)
		assert.True(t, credited)
		assert.Equal(t, int64(300), a.Earnings().Today)
		assert.Equal(t, int64(300), a.Earnings().Total)
		assert.Equal(t, int64(1150), a.Earnings().CashCollected)
		assert.Equal(t, 1, a.Stats().TotalDeliveries)
		assert.Equal(t, 1, a.Stats().SuccessfulDeliveries)
		assert.InDelta(t, 100.0, a.Stats().CompletionRate, 0.001)
		assert.Nil(t, a.ActiveOrderID())
		assert.True(t, a.IsAvailable())
	})

	t.Run("online payment collects no cash", func(t *testing.T) {
		a := newAgent(t)
		o := deliveredOrder(t, a, order.PaymentOnline)

		_, err := ledger.RecordDelivery(a, o, now)

		require.NoError(t, err)
		assert.Zero(t, a.Earnings().CashCollected)
	})

	t.Run("second call does not credit twice", func(t *testing.T) {
		a := newAgent(t)
		o := deliveredOrder(t, a, order.PaymentCOD)
		_, err := ledger.RecordDelivery(a, o, now)
		require.NoError(t, err)

		credited, err := ledger.RecordDelivery(a, o, now)

		require.NoError(t, err)
		assert.False(t, credited)
		assert.Equal(t, int64(300), a.Earnings().Total)
		assert.Equal(t, 1, a.Stats().TotalDeliveries)
		assert.Len(t, a.NewLedgerEntries(), 1)
	})

	t.Run("refuses order that is not delivered", func(t *testing.T) {
		a := newAgent(t)
		o := readyOrder(t, order.PaymentCOD)
		_, err := services.NewOrderDispatcher(0).Dispatch(o, a, now)
		require.NoError(t, err)

		_, err = ledger.RecordDelivery(a, o, now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Zero(t, a.Earnings().Total)
	})

	t.Run("refuses agent that did not deliver", func(t *testing.T) {
		o := deliveredOrder(t, newAgent(t), order.PaymentCOD)
		other := newAgent(t)

		_, err := ledger.RecordDelivery(other, o, now)

		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})
}

func TestEarningsLedger_RecordFailedDelivery(t *testing.T) {
	ledger, err := services.NewEarningsLedger(300)
	require.NoError(t, err)
	a := newAgent(t)
	o := readyOrder(t, order.PaymentCOD)
	_, err = services.NewOrderDispatcher(0).Dispatch(o, a, now)
	require.NoError(t, err)

	require.NoError(t, ledger.RecordFailedDelivery(a, o))
	require.NoError(t, ledger.RecordFailedDelivery(a, o))

	assert.Equal(t, 1, a.Stats().TotalDeliveries)
	assert.Zero(t, a.Stats().SuccessfulDeliveries)
	assert.Zero(t, a.Stats().CompletionRate)
	assert.True(t, a.IsAvailable())
}
