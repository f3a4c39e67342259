package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_Claim(t *testing.T) {
	f := newFixture(t)

	t.Run("first agent wins and the second one conflicts", func(t *testing.T) {
		o := f.readyOrder(t, order.DeliveryStation)
		claimedAt := baseTime.Add(time.Hour)

		require.NoError(t, o.Claim(f.agent, claimedAt))

		assert.Equal(t, order.OutForDelivery, o.Status())
		assert.Equal(t, order.StageAssigned, o.Stage())
		assert.True(t, o.IsAssignedTo(f.agent.ID()))
		at, ok := o.TimestampOf("OUT_FOR_DELIVERY")
		require.True(t, ok)
		assert.Equal(t, claimedAt, at)

		err := o.Claim(mustActor(t, kernel.RoleAgent), claimedAt.Add(time.Second))

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Contains(t, err.Error(), "already assigned to another driver")
		assert.True(t, o.IsAssignedTo(f.agent.ID()))
	})

	t.Run("raises the accepted event", func(t *testing.T) {
		o := f.claimedOrder(t, order.DeliveryHome)

		events := o.PullEvents()

		require.Len(t, events, 1)
		assert.Equal(t, order.EventAccepted, events[0].Type)
		assert.True(t, events[0].OrderID.IsEqual(o.ID()))
		assert.Empty(t, o.PullEvents())
	})

	t.Run("order that is not ready cannot be claimed", func(t *testing.T) {
		o := f.newOrder(t, order.DeliveryHome)

		require.ErrorIs(t, o.Claim(f.agent, baseTime), errs.ErrInvalidTransition)
		assert.Nil(t, o.DriverID())
	})

	t.Run("only agents claim", func(t *testing.T) {
		o := f.readyOrder(t, order.DeliveryHome)

		require.ErrorIs(t, o.Claim(f.seller1, baseTime), errs.ErrUnauthorized)
	})
}

func TestOrder_Decline(t *testing.T) {
	f := newFixture(t)
	o := f.readyOrder(t, order.DeliveryHome)
	before := len(o.History())

	require.NoError(t, o.Decline(f.agent, "too far", baseTime))

	assert.Equal(t, order.ReadyForPickup, o.Status())
	assert.Nil(t, o.DriverID())
	history := o.History()
	require.Len(t, history, before+1)
	assert.Equal(t, order.LabelDeclined, history[before].Label())
	assert.Equal(t, "too far", history[before].Note())
	require.ErrorIs(t, o.Decline(f.customer, "", baseTime), errs.ErrUnauthorized)
}

func TestOrder_DeliveryLifecycle(t *testing.T) {
	f := newFixture(t)

	t.Run("station delivery with otp", func(t *testing.T) {
		o := f.claimedOrder(t, order.DeliveryStation)
		o.PullEvents()

		require.NoError(t, o.MarkPickedUp(f.agent, baseTime.Add(time.Hour)))
		require.NoError(t, o.MarkReachedStation(f.agent, "North", baseTime.Add(2*time.Hour)))
		require.NoError(t, o.SetOTP(challenge(t, "482913", baseTime.Add(3*time.Hour)), f.agent, baseTime.Add(2*time.Hour)))
		require.NoError(t, o.VerifyOTP("482913", plainMatcher{}, f.agent, baseTime.Add(2*time.Hour)))

		proof, err := order.NewProof(order.ProofOTP, "")
		require.NoError(t, err)
		require.NoError(t, o.Deliver(f.agent, proof, baseTime.Add(2*time.Hour+time.Minute)))

		assert.Equal(t, order.Delivered, o.Status())
		assert.Equal(t, order.StageDelivered, o.Stage())
		assert.Equal(t, "North", o.ActualStation())
		assert.Equal(t, order.ProofOTP, o.Proof().Kind())
		for _, label := range []string{"PICKED_UP", "REACHED_STATION", "DELIVERED"} {
			_, ok := o.TimestampOf(label)
			assert.True(t, ok, label)
		}

		events := o.PullEvents()
		require.Len(t, events, 2)
		assert.Equal(t, order.EventPickedUp, events[0].Type)
		assert.Equal(t, order.EventDelivered, events[1].Type)
	})

	t.Run("home delivery may skip the station", func(t *testing.T) {
		o := f.claimedOrder(t, order.DeliveryHome)
		require.NoError(t, o.MarkPickedUp(f.agent, baseTime))
		proof, _ := order.NewProof(order.ProofPhoto, "s3://proofs/1.jpg")

		require.NoError(t, o.Deliver(f.agent, proof, baseTime))
		assert.Equal(t, order.Delivered, o.Status())
	})

	t.Run("station delivery must reach the station first", func(t *testing.T) {
		o := f.claimedOrder(t, order.DeliveryStation)
		require.NoError(t, o.MarkPickedUp(f.agent, baseTime))
		proof, _ := order.NewProof(order.ProofPhoto, "s3://proofs/1.jpg")

		require.ErrorIs(t, o.Deliver(f.agent, proof, baseTime), errs.ErrInvalidTransition)
	})

	t.Run("otp proof needs a verified code", func(t *testing.T) {
		o := f.claimedOrder(t, order.DeliveryHome)
		require.NoError(t, o.MarkPickedUp(f.agent, baseTime))
		proof, _ := order.NewProof(order.ProofOTP, "")

		err := o.Deliver(f.agent, proof, baseTime)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Nil(t, o.Proof())
		assert.Equal(t, order.OutForDelivery, o.Status())
	})

	t.Run("stages cannot be skipped or repeated", func(t *testing.T) {
		o := f.claimedOrder(t, order.DeliveryStation)

		require.ErrorIs(t, o.MarkReachedStation(f.agent, "North", baseTime), errs.ErrInvalidTransition)
		require.NoError(t, o.MarkPickedUp(f.agent, baseTime))
		require.ErrorIs(t, o.MarkPickedUp(f.agent, baseTime), errs.ErrInvalidTransition)
		require.ErrorIs(t, o.MarkReachedStation(f.agent, " ", baseTime), errs.ErrValidation)
	})

	t.Run("only the assigned driver advances the delivery", func(t *testing.T) {
		o := f.claimedOrder(t, order.DeliveryHome)
		other := mustActor(t, kernel.RoleAgent)

		require.ErrorIs(t, o.MarkPickedUp(other, baseTime), errs.ErrUnauthorized)
		require.ErrorIs(t, o.MarkPickedUp(f.admin, baseTime), errs.ErrUnauthorized)
		require.ErrorIs(t, o.ReportIssue(other, "flat tyre", baseTime), errs.ErrUnauthorized)
	})

	t.Run("driver reports an issue without changing status", func(t *testing.T) {
		o := f.claimedOrder(t, order.DeliveryHome)

		require.NoError(t, o.ReportIssue(f.agent, "customer not answering", baseTime))
		require.NoError(t, o.Decline(f.agent, "vehicle broke down", baseTime))

		assert.Equal(t, order.OutForDelivery, o.Status())
		history := o.History()
		assert.Equal(t, order.LabelIssueReported, history[len(history)-2].Label())
		assert.Equal(t, order.LabelDeclined, history[len(history)-1].Label())
	})
}

func TestOrder_OTP(t *testing.T) {
	f := newFixture(t)
	window := 10 * time.Minute

	t.Run("code verifies exactly once", func(t *testing.T) {
		o := f.claimedOrder(t, order.DeliveryHome)
		require.NoError(t, o.SetOTP(challenge(t, "482913", baseTime.Add(window)), f.customer, baseTime))

		require.NoError(t, o.VerifyOTP("482913", plainMatcher{}, f.agent, baseTime.Add(time.Minute)))
		assert.True(t, o.OTPVerified())
		assert.Nil(t, o.OTP())

		err := o.VerifyOTP("482913", plainMatcher{}, f.agent, baseTime.Add(2*time.Minute))
		require.ErrorIs(t, err, errs.ErrMismatch)
	})

	t.Run("wrong code is a mismatch and keeps the challenge", func(t *testing.T) {
		o := f.claimedOrder(t, order.DeliveryHome)
		require.NoError(t, o.SetOTP(challenge(t, "482913", baseTime.Add(window)), f.agent, baseTime))

		require.ErrorIs(t, o.VerifyOTP("000000", plainMatcher{}, f.agent, baseTime), errs.ErrMismatch)
		assert.NotNil(t, o.OTP())
		assert.False(t, o.OTPVerified())
	})

	t.Run("expired code is rejected and cleared", func(t *testing.T) {
		o := f.claimedOrder(t, order.DeliveryHome)
		require.NoError(t, o.SetOTP(challenge(t, "482913", baseTime.Add(window)), f.agent, baseTime))

		err := o.VerifyOTP("482913", plainMatcher{}, f.agent, baseTime.Add(window+time.Second))

		require.ErrorIs(t, err, errs.ErrExpired)
		assert.Nil(t, o.OTP())
		require.ErrorIs(t, o.VerifyOTP("482913", plainMatcher{}, f.agent, baseTime), errs.ErrMismatch)
	})

	t.Run("new code overwrites the previous one", func(t *testing.T) {
		o := f.claimedOrder(t, order.DeliveryHome)
		require.NoError(t, o.SetOTP(challenge(t, "111111", baseTime.Add(window)), f.agent, baseTime))
		require.NoError(t, o.SetOTP(challenge(t, "222222", baseTime.Add(window)), f.agent, baseTime))

		require.ErrorIs(t, o.VerifyOTP("111111", plainMatcher{}, f.agent, baseTime), errs.ErrMismatch)
		require.NoError(t, o.VerifyOTP("222222", plainMatcher{}, f.agent, baseTime))
	})

	t.Run("terminal orders get no code", func(t *testing.T) {
		o := f.newOrder(t, order.DeliveryHome)
		require.NoError(t, o.TransitionStatus(order.Cancelled, f.admin, "", baseTime))

		err := o.SetOTP(challenge(t, "111111", baseTime.Add(window)), f.customer, baseTime)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("strangers cannot request or verify codes", func(t *testing.T) {
		o := f.claimedOrder(t, order.DeliveryHome)
		stranger := mustActor(t, kernel.RoleCustomer)

		require.ErrorIs(t, o.SetOTP(challenge(t, "111111", baseTime.Add(window)), stranger, baseTime), errs.ErrUnauthorized)
		require.NoError(t, o.SetOTP(challenge(t, "111111", baseTime.Add(window)), f.customer, baseTime))
		require.ErrorIs(t, o.VerifyOTP("111111", plainMatcher{}, f.customer, baseTime), errs.ErrUnauthorized)
	})
}
