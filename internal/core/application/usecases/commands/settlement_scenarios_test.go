package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"parcelhub/internal/core/application/usecases/commands"
	"parcelhub/internal/core/domain/model/delivery"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/offer"
	"parcelhub/internal/core/domain/model/payment"
	"parcelhub/internal/core/domain/model/tracking"
	"parcelhub/internal/core/domain/services"
	"parcelhub/internal/core/ports"
	"parcelhub/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settlementFixture struct {
	store    *memStore
	rec      *recorder
	sender   kernel.UUID
	delivery *delivery.Delivery
}

func newSettlementFixture(t *testing.T, senderBalance string, recipientID *kernel.UUID) settlementFixture {
	t.Helper()
	store := newMemStore(t)
	sender := kernel.NewUUID()
	store.seedBalance(sender, senderBalance)

	d := pendingDelivery(t, sender, recipientID, "25.00")
	store.seedDelivery(d)

	return settlementFixture{store: store, rec: &recorder{}, sender: sender, delivery: d}
}

func (f settlementFixture) offer(t *testing.T, pickerID kernel.UUID, price string) *offer.Offer {
	t.Helper()
	o := pendingOffer(t, f.delivery.ID(), pickerID, price)
	f.store.seedOffer(o)
	return o
}

func (f settlementFixture) accept(t *testing.T, offerID, senderID kernel.UUID, key string) (commands.AcceptOfferResult, error) {
	t.Helper()
	cmd, err := commands.NewAcceptOfferCommand(offerID, senderID, key)
	require.NoError(t, err)
	handler := commands.NewAcceptOfferCommandHandler(memUoWFactory{f.store}, services.NewOfferSettler(), f.rec.effects())
	return handler.Handle(context.Background(), cmd)
}

func (f settlementFixture) changeStatus(t *testing.T, actorID kernel.UUID, status delivery.Status) error {
	t.Helper()
	cmd, err := commands.NewUpdateDeliveryStatusCommand(f.delivery.ID(), actorID, status)
	require.NoError(t, err)
	handler := commands.NewUpdateDeliveryStatusCommandHandler(memUoWFactory{f.store}, f.rec.effects())
	return handler.Handle(context.Background(), cmd)
}

func TestAcceptOffer_DebitsSenderAndOpensEscrow(t *testing.T) {
	recipient := kernel.NewUUID()
	f := newSettlementFixture(t, "100.00", &recipient)
	picker := kernel.NewUUID()
	o := f.offer(t, picker, "40.00")

	result, err := f.accept(t, o.ID(), f.sender, "")
	require.NoError(t, err)

	assert.True(t, f.store.balance(f.sender).Equal(decimal.RequireFromString("60.00")))

	d := f.store.delivery(f.delivery.ID())
	assert.Equal(t, delivery.Accepted, d.Status())
	require.NotNil(t, d.PickerID())
	assert.True(t, d.PickerID().IsEqual(picker))
	assert.Equal(t, "40.00", d.Price().String())

	records := f.store.paymentsOf(f.delivery.ID())
	require.Len(t, records, 1)
	assert.Equal(t, payment.Pending, records[0].Status())
	assert.Equal(t, "40.00", records[0].Amount().String())
	assert.True(t, records[0].ID().IsEqual(result.PaymentID))

	trackingRecord := f.store.tracking(f.delivery.ID())
	require.NotNil(t, trackingRecord)
	assert.Nil(t, trackingRecord.PickerLocation())

	assert.Equal(t, offer.Accepted, f.store.offer(o.ID()).Status())
	assert.Equal(t, []ports.NotificationType{ports.NotificationOfferAccepted}, f.rec.notificationsOf(picker))
	assert.Equal(t, []ports.NotificationType{ports.NotificationStatusChanged}, f.rec.notificationsOf(f.sender))
	assert.Equal(t, []ports.NotificationType{ports.NotificationStatusChanged}, f.rec.notificationsOf(recipient))
	assert.Equal(t, [][2]kernel.UUID{{f.sender, picker}, {picker, recipient}}, f.rec.chats)
}

func TestAcceptOffer_RejectsCompetingOffers(t *testing.T) {
	f := newSettlementFixture(t, "100.00", nil)
	p1, p2 := kernel.NewUUID(), kernel.NewUUID()
	o1 := f.offer(t, p1, "40.00")
	o2 := f.offer(t, p2, "35.00")

	_, err := f.accept(t, o1.ID(), f.sender, "")
	require.NoError(t, err)

	assert.Equal(t, offer.Accepted, f.store.offer(o1.ID()).Status())
	assert.Equal(t, offer.Rejected, f.store.offer(o2.ID()).Status())
	assert.True(t, f.store.delivery(f.delivery.ID()).PickerID().IsEqual(p1))
	assert.Equal(t, []ports.NotificationType{ports.NotificationOfferRejected}, f.rec.notificationsOf(p2))

	_, err = f.accept(t, o2.ID(), f.sender, "")
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.True(t, f.store.balance(f.sender).Equal(decimal.RequireFromString("60.00")))
}

func TestAcceptOffer_InsufficientFundsLeavesNothingBehind(t *testing.T) {
	f := newSettlementFixture(t, "10.00", nil)
	picker := kernel.NewUUID()
	o := f.offer(t, picker, "40.00")

	_, err := f.accept(t, o.ID(), f.sender, "")
	require.ErrorIs(t, err, errs.ErrInsufficientFunds)

	assert.True(t, f.store.balance(f.sender).Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, delivery.Pending, f.store.delivery(f.delivery.ID()).Status())
	assert.Nil(t, f.store.delivery(f.delivery.ID()).PickerID())
	assert.Empty(t, f.store.paymentsOf(f.delivery.ID()))
	assert.Nil(t, f.store.tracking(f.delivery.ID()))
	assert.Equal(t, offer.Pending, f.store.offer(o.ID()).Status())
	assert.Empty(t, f.rec.notifications)
	assert.Empty(t, f.rec.chats)
}

func TestAcceptOffer_FailureAfterDebitRollsBack(t *testing.T) {
	f := newSettlementFixture(t, "100.00", nil)
	o := f.offer(t, kernel.NewUUID(), "40.00")
	f.store.faults["tracking.Add"] = errors.New("disk full")

	_, err := f.accept(t, o.ID(), f.sender, "")
	require.Error(t, err)

	assert.True(t, f.store.balance(f.sender).Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, delivery.Pending, f.store.delivery(f.delivery.ID()).Status())
	assert.Empty(t, f.store.paymentsOf(f.delivery.ID()))
	assert.Equal(t, offer.Pending, f.store.offer(o.ID()).Status())
}

func TestAcceptOffer_OnlySenderMayAccept(t *testing.T) {
	f := newSettlementFixture(t, "100.00", nil)
	picker := kernel.NewUUID()
	o := f.offer(t, picker, "40.00")

	_, err := f.accept(t, o.ID(), picker, "")
	require.ErrorIs(t, err, errs.ErrForbidden)
	assert.Equal(t, delivery.Pending, f.store.delivery(f.delivery.ID()).Status())
}

func TestAcceptOffer_ConcurrentAcceptancesSettleOnce(t *testing.T) {
	f := newSettlementFixture(t, "100.00", nil)
	offers := []*offer.Offer{
		f.offer(t, kernel.NewUUID(), "40.00"),
		f.offer(t, kernel.NewUUID(), "45.00"),
		f.offer(t, kernel.NewUUID(), "50.00"),
	}

	var wg sync.WaitGroup
	results := make([]error, len(offers))
	for i, o := range offers {
		wg.Add(1)
		go func(i int, offerID kernel.UUID) {
			defer wg.Done()
			cmd, err := commands.NewAcceptOfferCommand(offerID, f.sender, "")
			if err != nil {
				results[i] = err
				return
			}
			handler := commands.NewAcceptOfferCommandHandler(memUoWFactory{f.store}, services.NewOfferSettler(), f.rec.effects())
			_, results[i] = handler.Handle(context.Background(), cmd)
		}(i, o.ID())
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, errs.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)
	require.Len(t, f.store.paymentsOf(f.delivery.ID()), 1)

	accepted := 0
	for _, o := range offers {
		if f.store.offer(o.ID()).Status() == offer.Accepted {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)

	paid := f.store.paymentsOf(f.delivery.ID())[0].Amount().Decimal()
	assert.True(t, f.store.balance(f.sender).Equal(decimal.RequireFromString("100.00").Sub(paid)))
}

func TestAcceptOffer_IdempotentRetry(t *testing.T) {
	f := newSettlementFixture(t, "100.00", nil)
	picker := kernel.NewUUID()
	o := f.offer(t, picker, "40.00")
	other := f.offer(t, kernel.NewUUID(), "30.00")

	first, err := f.accept(t, o.ID(), f.sender, "key-1")
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := f.accept(t, o.ID(), f.sender, "key-1")
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.True(t, first.PaymentID.IsEqual(second.PaymentID))
	assert.True(t, first.DeliveryID.IsEqual(second.DeliveryID))

	assert.True(t, f.store.balance(f.sender).Equal(decimal.RequireFromString("60.00")))
	assert.Len(t, f.store.paymentsOf(f.delivery.ID()), 1)
	assert.Len(t, f.rec.notificationsOf(picker), 1, "a replay has no side effects")

	_, err = f.accept(t, other.ID(), f.sender, "key-1")
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestAssignPicker_SettlesAtDeliveryPrice(t *testing.T) {
	recipient := kernel.NewUUID()
	f := newSettlementFixture(t, "100.00", &recipient)
	bidder := kernel.NewUUID()
	o := f.offer(t, bidder, "20.00")
	picker := kernel.NewUUID()

	cmd, err := commands.NewAssignPickerCommand(f.delivery.ID(), f.sender, picker)
	require.NoError(t, err)
	handler := commands.NewAssignPickerCommandHandler(memUoWFactory{f.store}, services.NewOfferSettler(), f.rec.effects())

	paymentID, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)

	assert.True(t, f.store.balance(f.sender).Equal(decimal.RequireFromString("75.00")))
	records := f.store.paymentsOf(f.delivery.ID())
	require.Len(t, records, 1)
	assert.True(t, records[0].ID().IsEqual(paymentID))
	assert.Equal(t, "25.00", records[0].Amount().String())
	assert.Equal(t, offer.Rejected, f.store.offer(o.ID()).Status())
	assert.Equal(t, []ports.NotificationType{ports.NotificationDeliveryAssigned}, f.rec.notificationsOf(picker))
	assert.Equal(t, []ports.NotificationType{ports.NotificationStatusChanged}, f.rec.notificationsOf(f.sender))
	assert.Equal(t, []ports.NotificationType{ports.NotificationStatusChanged}, f.rec.notificationsOf(recipient))
	assert.Equal(t, [][2]kernel.UUID{{f.sender, picker}, {picker, recipient}}, f.rec.chats)
}

func TestUpdateStatus_DeliveredCreditsPickerOnce(t *testing.T) {
	f := newSettlementFixture(t, "100.00", nil)
	picker := kernel.NewUUID()
	o := f.offer(t, picker, "40.00")
	_, err := f.accept(t, o.ID(), f.sender, "")
	require.NoError(t, err)

	require.NoError(t, f.changeStatus(t, picker, delivery.PickedUp))
	require.NoError(t, f.changeStatus(t, picker, delivery.Delivered))

	records := f.store.paymentsOf(f.delivery.ID())
	require.Len(t, records, 1)
	assert.Equal(t, payment.Completed, records[0].Status())
	assert.NotNil(t, records[0].CompletedAt())
	assert.True(t, f.store.balance(picker).Equal(decimal.RequireFromString("40.00")))
	assert.Equal(t, delivery.Delivered, f.store.tracking(f.delivery.ID()).Status())

	assert.Equal(t, []tracking.EventType{
		tracking.EventStatusUpdated,
		tracking.EventStatusUpdated,
		tracking.EventTrackingCompleted,
	}, f.rec.eventTypes())

	err = f.changeStatus(t, picker, delivery.Delivered)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.True(t, f.store.balance(picker).Equal(decimal.RequireFromString("40.00")))
	assert.Len(t, f.rec.eventTypes(), 3)
}

func TestUpdateStatus_FailedSettlementKeepsPickedUp(t *testing.T) {
	f := newSettlementFixture(t, "100.00", nil)
	picker := kernel.NewUUID()
	o := f.offer(t, picker, "40.00")
	_, err := f.accept(t, o.ID(), f.sender, "")
	require.NoError(t, err)
	require.NoError(t, f.changeStatus(t, picker, delivery.PickedUp))

	f.store.faults["payment.Update"] = errors.New("connection reset")
	err = f.changeStatus(t, picker, delivery.Delivered)
	require.Error(t, err)

	assert.Equal(t, delivery.PickedUp, f.store.delivery(f.delivery.ID()).Status())
	assert.True(t, f.store.balance(picker).IsZero())
	assert.Equal(t, payment.Pending, f.store.paymentsOf(f.delivery.ID())[0].Status())
}

func TestUpdateStatus_Authority(t *testing.T) {
	recipient := kernel.NewUUID()
	f := newSettlementFixture(t, "100.00", &recipient)
	picker := kernel.NewUUID()
	o := f.offer(t, picker, "40.00")
	_, err := f.accept(t, o.ID(), f.sender, "")
	require.NoError(t, err)

	require.ErrorIs(t, f.changeStatus(t, f.sender, delivery.PickedUp), errs.ErrForbidden)
	require.ErrorIs(t, f.changeStatus(t, recipient, delivery.Cancelled), errs.ErrForbidden)
	require.ErrorIs(t, f.changeStatus(t, picker, delivery.Delivered), errs.ErrInvalidTransition)
	require.ErrorIs(t, f.changeStatus(t, kernel.NewUUID(), delivery.Cancelled), errs.ErrForbidden)
	assert.Equal(t, delivery.Accepted, f.store.delivery(f.delivery.ID()).Status())
	assert.Empty(t, f.rec.eventTypes())
}

func TestUpdateStatus_PickerOnlyCommandRefusesSender(t *testing.T) {
	recipient := kernel.NewUUID()
	f := newSettlementFixture(t, "100.00", &recipient)
	picker := kernel.NewUUID()
	o := f.offer(t, picker, "40.00")
	_, err := f.accept(t, o.ID(), f.sender, "")
	require.NoError(t, err)

	handler := commands.NewUpdateDeliveryStatusCommandHandler(memUoWFactory{f.store}, f.rec.effects())
	handle := func(actorID kernel.UUID, status delivery.Status) error {
		cmd, err := commands.NewPickerStatusUpdateCommand(f.delivery.ID(), actorID, status)
		require.NoError(t, err)
		return handler.Handle(context.Background(), cmd)
	}

	require.ErrorIs(t, handle(f.sender, delivery.Cancelled), errs.ErrForbidden)
	require.ErrorIs(t, handle(recipient, delivery.Cancelled), errs.ErrForbidden)
	assert.Equal(t, delivery.Accepted, f.store.delivery(f.delivery.ID()).Status())
	assert.Equal(t, payment.Pending, f.store.paymentsOf(f.delivery.ID())[0].Status())
	assert.True(t, f.store.balance(f.sender).Equal(decimal.RequireFromString("60.00")))
	assert.Empty(t, f.rec.eventTypes())

	require.NoError(t, handle(picker, delivery.PickedUp))
	assert.Equal(t, []tracking.EventType{tracking.EventStatusUpdated}, f.rec.eventTypes())
}

func TestUpdateStatus_CancelAfterAcceptanceRefundsSender(t *testing.T) {
	f := newSettlementFixture(t, "100.00", nil)
	picker := kernel.NewUUID()
	o := f.offer(t, picker, "40.00")
	_, err := f.accept(t, o.ID(), f.sender, "")
	require.NoError(t, err)

	require.NoError(t, f.changeStatus(t, f.sender, delivery.Cancelled))

	assert.True(t, f.store.balance(f.sender).Equal(decimal.RequireFromString("100.00")))
	assert.True(t, f.store.balance(picker).IsZero())
	assert.Equal(t, payment.Cancelled, f.store.paymentsOf(f.delivery.ID())[0].Status())
	assert.Equal(t, delivery.Cancelled, f.store.tracking(f.delivery.ID()).Status())
	assert.Equal(t, []tracking.EventType{tracking.EventStatusUpdated}, f.rec.eventTypes())
	assert.Contains(t, f.rec.notificationsOf(picker), ports.NotificationStatusChanged)
}

func TestUpdateStatus_CancelPendingDelivery(t *testing.T) {
	f := newSettlementFixture(t, "100.00", nil)

	require.NoError(t, f.changeStatus(t, f.sender, delivery.Cancelled))

	assert.Equal(t, delivery.Cancelled, f.store.delivery(f.delivery.ID()).Status())
	assert.True(t, f.store.balance(f.sender).Equal(decimal.RequireFromString("100.00")))
	assert.Empty(t, f.rec.eventTypes(), "no tracking room before acceptance")
	assert.Equal(t, []ports.NotificationType{ports.NotificationStatusChanged}, f.rec.notificationsOf(f.sender))
}

func TestConfirmRecipient(t *testing.T) {
	t.Run("confirmation sets the flag and notifies the sender", func(t *testing.T) {
		recipient := kernel.NewUUID()
		f := newSettlementFixture(t, "100.00", &recipient)

		cmd, err := commands.NewConfirmRecipientCommand(f.delivery.ID(), recipient, true)
		require.NoError(t, err)
		handler := commands.NewConfirmRecipientCommandHandler(memUoWFactory{f.store}, f.rec.effects())
		require.NoError(t, handler.Handle(context.Background(), cmd))

		d := f.store.delivery(f.delivery.ID())
		assert.True(t, d.RecipientConfirmed())
		assert.Equal(t, delivery.Pending, d.Status())
		assert.Equal(t, []ports.NotificationType{ports.NotificationRecipientConfirmed}, f.rec.notificationsOf(f.sender))
	})

	t.Run("rejection after acceptance cancels and refunds", func(t *testing.T) {
		recipient := kernel.NewUUID()
		f := newSettlementFixture(t, "100.00", &recipient)
		picker := kernel.NewUUID()
		o := f.offer(t, picker, "40.00")
		_, err := f.accept(t, o.ID(), f.sender, "")
		require.NoError(t, err)

		cmd, err := commands.NewConfirmRecipientCommand(f.delivery.ID(), recipient, false)
		require.NoError(t, err)
		handler := commands.NewConfirmRecipientCommandHandler(memUoWFactory{f.store}, f.rec.effects())
		require.NoError(t, handler.Handle(context.Background(), cmd))

		assert.Equal(t, delivery.Cancelled, f.store.delivery(f.delivery.ID()).Status())
		assert.True(t, f.store.balance(f.sender).Equal(decimal.RequireFromString("100.00")))
		assert.Equal(t, []ports.NotificationType{
			ports.NotificationStatusChanged,
			ports.NotificationRecipientRejected,
		}, f.rec.notificationsOf(f.sender))
		assert.Equal(t, []ports.NotificationType{
			ports.NotificationOfferAccepted,
			ports.NotificationStatusChanged,
		}, f.rec.notificationsOf(picker), "the picker learns the delivery was cancelled")
		assert.Equal(t, []tracking.EventType{tracking.EventStatusUpdated}, f.rec.eventTypes())
	})

	t.Run("only the recipient may answer", func(t *testing.T) {
		recipient := kernel.NewUUID()
		f := newSettlementFixture(t, "100.00", &recipient)

		cmd, err := commands.NewConfirmRecipientCommand(f.delivery.ID(), f.sender, true)
		require.NoError(t, err)
		handler := commands.NewConfirmRecipientCommandHandler(memUoWFactory{f.store}, f.rec.effects())
		require.ErrorIs(t, handler.Handle(context.Background(), cmd), errs.ErrForbidden)
		assert.Empty(t, f.rec.notifications)
	})
}

func TestUpdatePickerLocation(t *testing.T) {
	f := newSettlementFixture(t, "100.00", nil)
	picker := kernel.NewUUID()
	o := f.offer(t, picker, "40.00")
	_, err := f.accept(t, o.ID(), f.sender, "")
	require.NoError(t, err)

	update := func(actorID kernel.UUID) error {
		cmd, err := commands.NewUpdatePickerLocationCommand(f.delivery.ID(), actorID, 52.51, 13.39)
		require.NoError(t, err)
		handler := commands.NewUpdatePickerLocationCommandHandler(memTrackingUoWFactory{f.store}, f.rec.effects())
		return handler.Handle(context.Background(), cmd)
	}

	t.Run("stranger is rejected without broadcast", func(t *testing.T) {
		require.ErrorIs(t, update(kernel.NewUUID()), errs.ErrForbidden)
		assert.Empty(t, f.rec.eventTypes())
		assert.Nil(t, f.store.tracking(f.delivery.ID()).PickerLocation())
	})

	t.Run("sender is rejected without broadcast", func(t *testing.T) {
		require.ErrorIs(t, update(f.sender), errs.ErrForbidden)
		assert.Empty(t, f.rec.eventTypes())
	})

	t.Run("picker location is stored and broadcast", func(t *testing.T) {
		require.NoError(t, update(picker))

		location := f.store.tracking(f.delivery.ID()).PickerLocation()
		require.NotNil(t, location)
		assert.InDelta(t, 52.51, location.Point().Lat(), 1e-9)
		assert.Equal(t, []tracking.EventType{tracking.EventLocationUpdated}, f.rec.eventTypes())
	})
}

func TestExpireStaleOffers(t *testing.T) {
	f := newSettlementFixture(t, "100.00", nil)
	stalePicker, freshPicker := kernel.NewUUID(), kernel.NewUUID()

	old := time.Now().UTC().Add(-4 * 24 * time.Hour)
	stale, err := offer.RestoreOffer(kernel.NewUUID(), f.delivery.ID(), stalePicker, kernel.MustMoney("30.00"), "", offer.Pending, old, old)
	require.NoError(t, err)
	f.store.seedOffer(stale)
	fresh := f.offer(t, freshPicker, "35.00")

	cmd, err := commands.NewExpireStaleOffersCommand(72*time.Hour, 10)
	require.NoError(t, err)
	handler := commands.NewExpireStaleOffersCommandHandler(memOfferUoWFactory{f.store}, f.rec.effects())

	expired, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	assert.Equal(t, offer.Rejected, f.store.offer(stale.ID()).Status())
	assert.Equal(t, offer.Pending, f.store.offer(fresh.ID()).Status())
	assert.Equal(t, []ports.NotificationType{ports.NotificationOfferExpired}, f.rec.notificationsOf(stalePicker))

	expired, err = handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.Zero(t, expired)
}
