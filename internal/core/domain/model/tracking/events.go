package tracking

import (
	"time"

	"parcelhub/internal/core/domain/model/kernel"
)

// EventType names a message exchanged on a tracking room connection.
type EventType string

// Client to server.
const (
	EventJoinTracking   EventType = "join-tracking"
	EventLeaveTracking  EventType = "leave-tracking"
	EventUpdateLocation EventType = "update-location"
	EventUpdateStatus   EventType = "update-status"
)

// Server to client.
const (
	EventTrackingData      EventType = "tracking-data"
	EventLocationUpdated   EventType = "location-updated"
	EventStatusUpdated     EventType = "status-updated"
	EventTrackingCompleted EventType = "tracking-completed"
	EventError             EventType = "error"
)

type PlaceView struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

type PickerLocationView struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Snapshot is the full tracking state sent as tracking-data on join and
// returned by the snapshot query.
type Snapshot struct {
	ID             string              `json:"id"`
	DeliveryID     string              `json:"deliveryId"`
	PickerID       string              `json:"pickerId"`
	SenderID       string              `json:"senderId"`
	ReceiverID     *string             `json:"receiverId"`
	FromLocation   PlaceView           `json:"fromLocation"`
	ToLocation     PlaceView           `json:"toLocation"`
	PickerLocation *PickerLocationView `json:"pickerLocation"`
	Status         string              `json:"status"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

type LocationUpdated struct {
	DeliveryID     string             `json:"deliveryId"`
	PickerLocation PickerLocationView `json:"pickerLocation"`
}

type StatusUpdated struct {
	DeliveryID string `json:"deliveryId"`
	Status     string `json:"status"`
}

type TrackingCompleted struct {
	DeliveryID string `json:"deliveryId"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

func (r *TrackingRecord) Snapshot() Snapshot {
	s := Snapshot{
		ID:           r.id.String(),
		DeliveryID:   r.deliveryID.String(),
		PickerID:     r.pickerID.String(),
		SenderID:     r.senderID.String(),
		FromLocation: placeView(r.from),
		ToLocation:   placeView(r.to),
		Status:       r.status.String(),
		UpdatedAt:    r.updatedAt,
	}
	if r.receiverID != nil {
		receiver := r.receiverID.String()
		s.ReceiverID = &receiver
	}
	if r.pickerLocation != nil {
		view := pickerLocationView(*r.pickerLocation)
		s.PickerLocation = &view
	}
	return s
}

// LocationUpdatedEvent describes the current picker location. It must only be
// called after a successful UpdatePickerLocation.
func (r *TrackingRecord) LocationUpdatedEvent() LocationUpdated {
	var view PickerLocationView
	if r.pickerLocation != nil {
		view = pickerLocationView(*r.pickerLocation)
	}
	return LocationUpdated{DeliveryID: r.deliveryID.String(), PickerLocation: view}
}

func placeView(p kernel.Place) PlaceView {
	return PlaceView{Lat: p.Point().Lat(), Lng: p.Point().Lng(), Address: p.Address()}
}

func pickerLocationView(l PickerLocation) PickerLocationView {
	return PickerLocationView{Lat: l.point.Lat(), Lng: l.point.Lng(), UpdatedAt: l.recordedAt}
}
