package tracking

import (
	"errors"
	"time"

	"parcelhub/internal/core/domain/model/delivery"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/errs"
	"parcelhub/internal/pkg/guard"
)

var ErrTrackingIsNotConstructed = errors.New("TrackingRecord must be created via NewTrackingRecord or RestoreTrackingRecord")

// PickerLocation is the last reported position of the picker.
type PickerLocation struct {
	point      kernel.GeoPoint
	recordedAt time.Time
}

func NewPickerLocation(point kernel.GeoPoint, recordedAt time.Time) (PickerLocation, error) {
	if err := point.Validate(); err != nil {
		return PickerLocation{}, err
	}
	return PickerLocation{point: point, recordedAt: recordedAt}, nil
}

func (l PickerLocation) Point() kernel.GeoPoint { return l.point }
func (l PickerLocation) RecordedAt() time.Time  { return l.recordedAt }

type TrackingRecord struct {
	id             kernel.UUID
	deliveryID     kernel.UUID
	pickerID       kernel.UUID
	senderID       kernel.UUID
	receiverID     *kernel.UUID
	from           kernel.Place
	to             kernel.Place
	pickerLocation *PickerLocation
	status         delivery.Status
	updatedAt      time.Time

	guard guard.ConstructorGuard
}

// NewTrackingRecord opens tracking for an assigned delivery. The picker
// location starts empty.
func NewTrackingRecord(id kernel.UUID, d *delivery.Delivery, now time.Time) (*TrackingRecord, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.PickerID() == nil {
		return nil, errs.NewValueIsRequiredError("pickerId")
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return &TrackingRecord{
		id:         id,
		deliveryID: d.ID(),
		pickerID:   *d.PickerID(),
		senderID:   d.SenderID(),
		receiverID: d.RecipientID(),
		from:       d.From(),
		to:         d.To(),
		status:     d.Status(),
		updatedAt:  now,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func RestoreTrackingRecord(
	id, deliveryID, pickerID, senderID kernel.UUID,
	receiverID *kernel.UUID,
	from, to kernel.Place,
	pickerLocation *PickerLocation,
	status delivery.Status,
	updatedAt time.Time,
) (*TrackingRecord, error) {
	var receiverErr error
	if receiverID != nil {
		receiverErr = receiverID.Validate()
	}
	if err := errors.Join(
		id.Validate(),
		deliveryID.Validate(),
		pickerID.Validate(),
		senderID.Validate(),
		receiverErr,
		from.Validate(),
		to.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return &TrackingRecord{
		id:             id,
		deliveryID:     deliveryID,
		pickerID:       pickerID,
		senderID:       senderID,
		receiverID:     receiverID,
		from:           from,
		to:             to,
		pickerLocation: pickerLocation,
		status:         status,
		updatedAt:      updatedAt,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (r *TrackingRecord) Validate() error {
	if r == nil {
		return ErrTrackingIsNotConstructed
	}
	return r.guard.Validate(ErrTrackingIsNotConstructed)
}

func (r *TrackingRecord) ID() kernel.UUID                 { return r.id }
func (r *TrackingRecord) DeliveryID() kernel.UUID         { return r.deliveryID }
func (r *TrackingRecord) PickerID() kernel.UUID           { return r.pickerID }
func (r *TrackingRecord) SenderID() kernel.UUID           { return r.senderID }
func (r *TrackingRecord) ReceiverID() *kernel.UUID        { return r.receiverID }
func (r *TrackingRecord) From() kernel.Place              { return r.from }
func (r *TrackingRecord) To() kernel.Place                { return r.to }
func (r *TrackingRecord) PickerLocation() *PickerLocation { return r.pickerLocation }
func (r *TrackingRecord) Status() delivery.Status         { return r.status }
func (r *TrackingRecord) UpdatedAt() time.Time            { return r.updatedAt }

// CanView reports whether userID is the sender, the receiver or the picker.
func (r *TrackingRecord) CanView(userID kernel.UUID) bool {
	return r.senderID.IsEqual(userID) || r.pickerID.IsEqual(userID) || userID.IsEqualPtr(r.receiverID)
}

// UpdatePickerLocation overwrites the picker position; last write wins.
// Only the assigned picker may report a location, and only while the delivery
// is still in progress.
func (r *TrackingRecord) UpdatePickerLocation(actorID kernel.UUID, point kernel.GeoPoint, now time.Time) error {
	if !r.pickerID.IsEqual(actorID) {
		return errs.NewForbiddenError(actorID, "update picker location")
	}
	if r.status.IsTerminal() {
		return errs.NewConflictError("tracking", "is closed for a "+r.status.String()+" delivery")
	}

	location, err := NewPickerLocation(point, now)
	if err != nil {
		return err
	}
	r.pickerLocation = &location
	r.updatedAt = now
	return nil
}

// MirrorStatus copies the delivery status after a successful transition.
func (r *TrackingRecord) MirrorStatus(status delivery.Status, now time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}
	r.status = status
	r.updatedAt = now
	return nil
}
