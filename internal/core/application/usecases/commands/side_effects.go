package commands

import (
	"context"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/tracking"
	"parcelhub/internal/core/ports"

	"github.com/sirupsen/logrus"
)

// SideEffects runs the best-effort work that follows a committed command.
// Failures are logged at warn level and swallowed. Nil collaborators are skipped.
type SideEffects struct {
	notifier ports.Notifier
	chats    ports.ChatProvisioner
	rooms    ports.RoomPublisher
	logger   logrus.FieldLogger
}

func NewSideEffects(
	notifier ports.Notifier,
	chats ports.ChatProvisioner,
	rooms ports.RoomPublisher,
	logger logrus.FieldLogger,
) SideEffects {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return SideEffects{
		notifier: notifier,
		chats:    chats,
		rooms:    rooms,
		logger:   logger.WithField("component", "side-effects"),
	}
}

func (s SideEffects) Notify(ctx context.Context, notifications ...ports.Notification) {
	if s.notifier == nil {
		return
	}
	for _, n := range notifications {
		if err := s.notifier.Notify(ctx, n); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"user_id":     n.UserID.String(),
				"delivery_id": n.DeliveryID.String(),
				"type":        n.Type,
			}).Warn("notification dispatch failed")
		}
	}
}

func (s SideEffects) EnsureChat(ctx context.Context, deliveryID, userA, userB kernel.UUID) {
	if s.chats == nil {
		return
	}
	if _, err := s.chats.EnsureChat(ctx, deliveryID, userA, userB); err != nil {
		s.logger.WithError(err).WithField("delivery_id", deliveryID.String()).Warn("chat provisioning failed")
	}
}

// Publish broadcasts one event to the delivery's tracking room.
func (s SideEffects) Publish(ctx context.Context, deliveryID kernel.UUID, eventType tracking.EventType, payload any) {
	if s.rooms == nil {
		return
	}
	event, err := ports.NewRoomEvent(eventType, payload)
	if err == nil {
		err = s.rooms.Publish(ctx, deliveryID, event)
	}
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"delivery_id": deliveryID.String(),
			"event":       eventType,
		}).Warn("tracking room publish failed")
	}
}
