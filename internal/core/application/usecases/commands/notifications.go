package commands

import (
	"parcelhub/internal/core/domain/model/delivery"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/ports"
)

func offerReceivedNotification(senderID, deliveryID kernel.UUID, price kernel.Money) ports.Notification {
	return ports.Notification{
		UserID:     senderID,
		DeliveryID: deliveryID,
		Type:       ports.NotificationOfferReceived,
		Title:      "New offer",
		Body:       "A picker offered to deliver your parcel for " + price.String() + ".",
	}
}

func offerAcceptedNotification(pickerID, deliveryID kernel.UUID) ports.Notification {
	return ports.Notification{
		UserID:     pickerID,
		DeliveryID: deliveryID,
		Type:       ports.NotificationOfferAccepted,
		Title:      "Offer accepted",
		Body:       "Your offer was accepted. The delivery is yours.",
	}
}

func offerRejectedNotification(pickerID, deliveryID kernel.UUID) ports.Notification {
	return ports.Notification{
		UserID:     pickerID,
		DeliveryID: deliveryID,
		Type:       ports.NotificationOfferRejected,
		Title:      "Offer declined",
		Body:       "The sender chose another picker for this delivery.",
	}
}

func offerExpiredNotification(pickerID, deliveryID kernel.UUID) ports.Notification {
	return ports.Notification{
		UserID:     pickerID,
		DeliveryID: deliveryID,
		Type:       ports.NotificationOfferExpired,
		Title:      "Offer expired",
		Body:       "Your offer was not answered in time and has expired.",
	}
}

func deliveryAssignedNotification(pickerID, deliveryID kernel.UUID) ports.Notification {
	return ports.Notification{
		UserID:     pickerID,
		DeliveryID: deliveryID,
		Type:       ports.NotificationDeliveryAssigned,
		Title:      "Delivery assigned",
		Body:       "A sender assigned a delivery to you.",
	}
}

var statusCopy = map[delivery.Status]struct{ title, body string }{
	delivery.Accepted:  {"Picker assigned", "A picker has been assigned and the delivery price is held in escrow."},
	delivery.PickedUp:  {"Parcel picked up", "The parcel has been picked up and is on its way."},
	delivery.Delivered: {"Parcel delivered", "The parcel has been delivered."},
	delivery.Cancelled: {"Delivery cancelled", "The delivery has been cancelled."},
}

// statusChangedNotifications addresses the sender and, when recorded, the
// recipient. The picker is told about cancellations too.
func statusChangedNotifications(d *delivery.Delivery) []ports.Notification {
	text := statusCopy[d.Status()]
	recipients := []kernel.UUID{d.SenderID()}
	if d.RecipientID() != nil {
		recipients = append(recipients, *d.RecipientID())
	}
	if d.Status() == delivery.Cancelled && d.PickerID() != nil {
		recipients = append(recipients, *d.PickerID())
	}

	notifications := make([]ports.Notification, 0, len(recipients))
	for _, userID := range recipients {
		notifications = append(notifications, statusChangedNotification(userID, d, text.title, text.body))
	}
	return notifications
}

func statusChangedNotification(userID kernel.UUID, d *delivery.Delivery, title, body string) ports.Notification {
	return ports.Notification{
		UserID:     userID,
		DeliveryID: d.ID(),
		Type:       ports.NotificationStatusChanged,
		Title:      title,
		Body:       body,
	}
}

// recipientAnswerNotifications tells the sender about the answer. A rejection
// cancels the delivery, so an assigned picker is told as well.
func recipientAnswerNotifications(d *delivery.Delivery, confirmed bool) []ports.Notification {
	notifications := []ports.Notification{recipientAnswerNotification(d, confirmed)}
	if !confirmed && d.PickerID() != nil {
		text := statusCopy[delivery.Cancelled]
		notifications = append(notifications, statusChangedNotification(*d.PickerID(), d, text.title, text.body))
	}
	return notifications
}

func recipientAnswerNotification(d *delivery.Delivery, confirmed bool) ports.Notification {
	if confirmed {
		return ports.Notification{
			UserID:     d.SenderID(),
			DeliveryID: d.ID(),
			Type:       ports.NotificationRecipientConfirmed,
			Title:      "Recipient confirmed",
			Body:       "The recipient confirmed they expect this parcel.",
		}
	}
	return ports.Notification{
		UserID:     d.SenderID(),
		DeliveryID: d.ID(),
		Type:       ports.NotificationRecipientRejected,
		Title:      "Recipient declined",
		Body:       "The recipient declined the parcel and the delivery was cancelled.",
	}
}
