package ws

import (
	"encoding/json"

	"parcelhub/internal/core/domain/model/tracking"
)

// clientMessage is the envelope of every message sent by a client.
type clientMessage struct {
	Event tracking.EventType `json:"event"`
	Data  json.RawMessage    `json:"data"`
}

type joinTracking struct {
	DeliveryID string `json:"deliveryId"`
	UserID     string `json:"userId"`
}

type leaveTracking struct {
	DeliveryID string `json:"deliveryId"`
}

type updateLocation struct {
	DeliveryID string   `json:"deliveryId"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	UserID     string   `json:"userId"`
}

type updateStatus struct {
	DeliveryID string `json:"deliveryId"`
	Status     string `json:"status"`
	UserID     string `json:"userId"`
}
