// Package trackingrepo persists TrackingRecord aggregates with GORM.
package trackingrepo

import (
	"time"

	"parcelhub/internal/core/domain/model/delivery"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/tracking"

	"github.com/google/uuid"
)

// TrackingDTO is the row of the tracking_records table. The picker location
// columns are all null until the picker reports a first position.
type TrackingDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DeliveryID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	PickerID        uuid.UUID  `gorm:"type:uuid;not null"`
	SenderID        uuid.UUID  `gorm:"type:uuid;not null"`
	ReceiverID      *uuid.UUID `gorm:"type:uuid"`
	From            PlaceDTO   `gorm:"embedded;embeddedPrefix:from_"`
	To              PlaceDTO   `gorm:"embedded;embeddedPrefix:to_"`
	PickerLat       *float64   `gorm:"type:double precision"`
	PickerLng       *float64   `gorm:"type:double precision"`
	PickerLocatedAt *time.Time
	Status          int       `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime:false"`
}

func (TrackingDTO) TableName() string {
	return "tracking_records"
}

type PlaceDTO struct {
	Lat     float64 `gorm:"type:double precision"`
	Lng     float64 `gorm:"type:double precision"`
	Address string
}

func fromDomain(r *tracking.TrackingRecord) TrackingDTO {
	dto := TrackingDTO{
		ID:         r.ID().Bytes(),
		DeliveryID: r.DeliveryID().Bytes(),
		PickerID:   r.PickerID().Bytes(),
		SenderID:   r.SenderID().Bytes(),
		From:       PlaceDTO{Lat: r.From().Point().Lat(), Lng: r.From().Point().Lng(), Address: r.From().Address()},
		To:         PlaceDTO{Lat: r.To().Point().Lat(), Lng: r.To().Point().Lng(), Address: r.To().Address()},
		Status:     int(r.Status()),
		UpdatedAt:  r.UpdatedAt(),
	}
	if id := r.ReceiverID(); id != nil {
		raw := id.Bytes()
		dto.ReceiverID = &raw
	}
	if loc := r.PickerLocation(); loc != nil {
		lat, lng, at := loc.Point().Lat(), loc.Point().Lng(), loc.RecordedAt()
		dto.PickerLat, dto.PickerLng, dto.PickerLocatedAt = &lat, &lng, &at
	}
	return dto
}

func toDomain(dto TrackingDTO) (*tracking.TrackingRecord, error) {
	ids := make([]kernel.UUID, 4)
	for i, raw := range []uuid.UUID{dto.ID, dto.DeliveryID, dto.PickerID, dto.SenderID} {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}

	var receiverID *kernel.UUID
	if dto.ReceiverID != nil {
		id, err := kernel.UUIDFromBytes((*dto.ReceiverID)[:])
		if err != nil {
			return nil, err
		}
		receiverID = &id
	}

	from, err := placeToDomain(dto.From)
	if err != nil {
		return nil, err
	}
	to, err := placeToDomain(dto.To)
	if err != nil {
		return nil, err
	}

	var pickerLocation *tracking.PickerLocation
	if dto.PickerLat != nil && dto.PickerLng != nil && dto.PickerLocatedAt != nil {
		point, err := kernel.NewGeoPoint(*dto.PickerLat, *dto.PickerLng)
		if err != nil {
			return nil, err
		}
		loc, err := tracking.NewPickerLocation(point, *dto.PickerLocatedAt)
		if err != nil {
			return nil, err
		}
		pickerLocation = &loc
	}

	return tracking.RestoreTrackingRecord(
		ids[0], ids[1], ids[2], ids[3],
		receiverID,
		from, to,
		pickerLocation,
		delivery.Status(dto.Status),
		dto.UpdatedAt,
	)
}

func placeToDomain(dto PlaceDTO) (kernel.Place, error) {
	point, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return kernel.Place{}, err
	}
	return kernel.NewPlace(point, dto.Address)
}
