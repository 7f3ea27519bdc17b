package queries

import (
	"context"
	"time"

	"parcelhub/internal/core/domain/model/delivery"
	"parcelhub/internal/core/domain/model/tracking"
	"parcelhub/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetTrackingSnapshotQueryHandler serves tracking-data for room joins and the
// REST snapshot endpoint.
type GetTrackingSnapshotQueryHandler struct {
	db *gorm.DB
}

func NewGetTrackingSnapshotQueryHandler(db *gorm.DB) GetTrackingSnapshotQueryHandler {
	return GetTrackingSnapshotQueryHandler{db: db}
}

type trackingRow struct {
	ID              uuid.UUID
	DeliveryID      uuid.UUID
	PickerID        uuid.UUID
	SenderID        uuid.UUID
	ReceiverID      *uuid.UUID
	FromLat         float64
	FromLng         float64
	FromAddress     string
	ToLat           float64
	ToLng           float64
	ToAddress       string
	PickerLat       *float64
	PickerLng       *float64
	PickerLocatedAt *time.Time
	Status          int
	UpdatedAt       time.Time
}

// Handle returns ObjectNotFoundError for a delivery that has no tracking yet
// and ForbiddenError for a caller outside the delivery.
func (h GetTrackingSnapshotQueryHandler) Handle(ctx context.Context, query GetTrackingSnapshotQuery) (tracking.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return tracking.Snapshot{}, err
	}

	var rows []trackingRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id, delivery_id, picker_id, sender_id, receiver_id,
			from_lat, from_lng, from_address, to_lat, to_lng, to_address,
			picker_lat, picker_lng, picker_located_at, status, updated_at
		FROM tracking_records
		WHERE delivery_id = ?
	`, query.DeliveryID().Bytes()).Scan(&rows).Error
	if err != nil {
		return tracking.Snapshot{}, err
	}
	if len(rows) == 0 {
		return tracking.Snapshot{}, errs.NewObjectNotFoundError("tracking of delivery", query.DeliveryID())
	}

	row := rows[0]
	caller := query.CallerID().Bytes()
	if row.SenderID != caller && row.PickerID != caller && (row.ReceiverID == nil || *row.ReceiverID != caller) {
		return tracking.Snapshot{}, errs.NewForbiddenError(query.CallerID(), "view tracking of delivery "+query.DeliveryID().String())
	}

	return row.snapshot(), nil
}

func (r trackingRow) snapshot() tracking.Snapshot {
	s := tracking.Snapshot{
		ID:           r.ID.String(),
		DeliveryID:   r.DeliveryID.String(),
		PickerID:     r.PickerID.String(),
		SenderID:     r.SenderID.String(),
		FromLocation: tracking.PlaceView{Lat: r.FromLat, Lng: r.FromLng, Address: r.FromAddress},
		ToLocation:   tracking.PlaceView{Lat: r.ToLat, Lng: r.ToLng, Address: r.ToAddress},
		Status:       delivery.Status(r.Status).String(),
		UpdatedAt:    r.UpdatedAt,
	}
	if r.ReceiverID != nil {
		receiver := r.ReceiverID.String()
		s.ReceiverID = &receiver
	}
	if r.PickerLat != nil && r.PickerLng != nil && r.PickerLocatedAt != nil {
		s.PickerLocation = &tracking.PickerLocationView{
			Lat:       *r.PickerLat,
			Lng:       *r.PickerLng,
			UpdatedAt: *r.PickerLocatedAt,
		}
	}
	return s
}
