package tracking_test

import (
	"encoding/json"
	"testing"
	"time"

	"parcelhub/internal/core/domain/model/delivery"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/tracking"
	"parcelhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	sender, recipient, picker kernel.UUID
	delivery                  *delivery.Delivery
}

func place(t *testing.T, lat, lng float64, address string) kernel.Place {
	t.Helper()
	point, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	p, err := kernel.NewPlace(point, address)
	require.NoError(t, err)
	return p
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{sender: kernel.NewUUID(), recipient: kernel.NewUUID(), picker: kernel.NewUUID()}
	d, err := delivery.NewDelivery(kernel.NewUUID(), f.sender, &f.recipient, kernel.MustMoney("10"),
		place(t, 10, 20, "pickup"), place(t, 11, 21, "dropoff"), "", now)
	require.NoError(t, err)
	require.NoError(t, d.AssignPicker(f.picker, kernel.MustMoney("10"), now))
	f.delivery = d
	return f
}

func TestNewTrackingRecord(t *testing.T) {
	t.Run("should copy delivery parties and route", func(t *testing.T) {
		f := newFixture(t)

		r, err := tracking.NewTrackingRecord(kernel.NewUUID(), f.delivery, now)

		require.NoError(t, err)
		require.NoError(t, r.Validate())
		assert.True(t, r.DeliveryID().IsEqual(f.delivery.ID()))
		assert.True(t, r.PickerID().IsEqual(f.picker))
		assert.True(t, r.SenderID().IsEqual(f.sender))
		assert.True(t, f.recipient.IsEqualPtr(r.ReceiverID()))
		assert.Equal(t, "pickup", r.From().Address())
		assert.Nil(t, r.PickerLocation())
		assert.Equal(t, delivery.Accepted, r.Status())
	})

	t.Run("should require an assigned picker", func(t *testing.T) {
		d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), nil, kernel.MustMoney("10"),
			place(t, 10, 20, "a"), place(t, 11, 21, "b"), "", now)
		require.NoError(t, err)

		_, err = tracking.NewTrackingRecord(kernel.NewUUID(), d, now)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestTrackingRecord_CanView(t *testing.T) {
	f := newFixture(t)
	r, err := tracking.NewTrackingRecord(kernel.NewUUID(), f.delivery, now)
	require.NoError(t, err)

	assert.True(t, r.CanView(f.sender))
	assert.True(t, r.CanView(f.recipient))
	assert.True(t, r.CanView(f.picker))
	assert.False(t, r.CanView(kernel.NewUUID()))
}

func TestTrackingRecord_UpdatePickerLocation(t *testing.T) {
	point, err := kernel.NewGeoPoint(10.5, 20.5)
	require.NoError(t, err)
	later := now.Add(time.Minute)

	t.Run("picker overwrites location", func(t *testing.T) {
		f := newFixture(t)
		r, err := tracking.NewTrackingRecord(kernel.NewUUID(), f.delivery, now)
		require.NoError(t, err)

		require.NoError(t, r.UpdatePickerLocation(f.picker, point, later))

		require.NotNil(t, r.PickerLocation())
		assert.True(t, r.PickerLocation().Point().IsEqual(point))
		assert.Equal(t, later, r.PickerLocation().RecordedAt())
		assert.Equal(t, later, r.UpdatedAt())

		event := r.LocationUpdatedEvent()
		assert.Equal(t, f.delivery.ID().String(), event.DeliveryID)
		assert.InDelta(t, 10.5, event.PickerLocation.Lat, 1e-9)
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		f := newFixture(t)
		r, err := tracking.NewTrackingRecord(kernel.NewUUID(), f.delivery, now)
		require.NoError(t, err)

		require.ErrorIs(t, r.UpdatePickerLocation(f.sender, point, later), errs.ErrForbidden)
		assert.Nil(t, r.PickerLocation())
	})

	t.Run("closed after delivery", func(t *testing.T) {
		f := newFixture(t)
		r, err := tracking.NewTrackingRecord(kernel.NewUUID(), f.delivery, now)
		require.NoError(t, err)
		require.NoError(t, r.MirrorStatus(delivery.Delivered, later))

		require.ErrorIs(t, r.UpdatePickerLocation(f.picker, point, later), errs.ErrConflict)
	})
}

func TestTrackingRecord_Snapshot(t *testing.T) {
	f := newFixture(t)
	r, err := tracking.NewTrackingRecord(kernel.NewUUID(), f.delivery, now)
	require.NoError(t, err)

	raw, err := json.Marshal(r.Snapshot())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, f.delivery.ID().String(), decoded["deliveryId"])
	assert.Equal(t, f.recipient.String(), decoded["receiverId"])
	assert.Equal(t, "accepted", decoded["status"])
	assert.Nil(t, decoded["pickerLocation"])
	assert.Equal(t, "pickup", decoded["fromLocation"].(map[string]any)["address"])
}
