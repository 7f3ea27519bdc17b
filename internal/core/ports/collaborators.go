package ports

import (
	"context"
	"encoding/json"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/tracking"
)

// NotificationType classifies a user-facing notification.
type NotificationType string

const (
	NotificationOfferReceived      NotificationType = "offer_received"
	NotificationOfferAccepted      NotificationType = "offer_accepted"
	NotificationOfferRejected      NotificationType = "offer_rejected"
	NotificationOfferExpired       NotificationType = "offer_expired"
	NotificationDeliveryAssigned   NotificationType = "delivery_assigned"
	NotificationStatusChanged      NotificationType = "delivery_status_changed"
	NotificationRecipientConfirmed NotificationType = "recipient_confirmed"
	NotificationRecipientRejected  NotificationType = "recipient_rejected"
)

type Notification struct {
	UserID     kernel.UUID
	DeliveryID kernel.UUID
	Type       NotificationType
	Title      string
	Body       string
}

// Notifier dispatches notifications. Callers treat it as best-effort: an
// error is logged and never changes the outcome of the operation.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// ChatProvisioner creates a chat between two users unless one already exists
// for the same pair and delivery. Best-effort, like Notifier.
type ChatProvisioner interface {
	EnsureChat(ctx context.Context, deliveryID, userA, userB kernel.UUID) (kernel.UUID, error)
}

// RoomEvent is one message of a delivery's tracking room, in the wire envelope
// {"event": "...", "data": {...}}.
type RoomEvent struct {
	Type tracking.EventType `json:"event"`
	Data json.RawMessage    `json:"data"`
}

// NewRoomEvent encodes payload as the event data.
func NewRoomEvent(eventType tracking.EventType, payload any) (RoomEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return RoomEvent{}, err
	}
	return RoomEvent{Type: eventType, Data: data}, nil
}

// RoomPublisher broadcasts to every current member of a delivery's room.
// Delivery is best-effort and ordered per publisher.
type RoomPublisher interface {
	Publish(ctx context.Context, deliveryID kernel.UUID, event RoomEvent) error
}

// RoomSubscription is one membership in a room. Events is closed after Close.
type RoomSubscription interface {
	Events() <-chan RoomEvent
	Close() error
}

// RoomBroker is a publish/subscribe bus of delivery rooms.
type RoomBroker interface {
	RoomPublisher
	Subscribe(ctx context.Context, deliveryID kernel.UUID) (RoomSubscription, error)
}
