package queries

import (
	"context"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/offer"
	"parcelhub/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListDeliveryOffersQueryHandler lists every offer of a delivery, oldest
// first. Only the sender may see them.
type ListDeliveryOffersQueryHandler struct {
	db *gorm.DB
}

func NewListDeliveryOffersQueryHandler(db *gorm.DB) ListDeliveryOffersQueryHandler {
	return ListDeliveryOffersQueryHandler{db: db}
}

func (h ListDeliveryOffersQueryHandler) Handle(ctx context.Context, query ListDeliveryOffersQuery) ([]OfferResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var senders []uuid.UUID
	if err := h.db.WithContext(ctx).
		Raw(`SELECT sender_id FROM deliveries WHERE id = ?`, query.DeliveryID().Bytes()).
		Scan(&senders).Error; err != nil {
		return nil, err
	}
	if len(senders) == 0 {
		return nil, errs.NewObjectNotFoundError("delivery", query.DeliveryID())
	}
	if senders[0] != query.SenderID().Bytes() {
		return nil, errs.NewForbiddenError(query.SenderID(), "list offers of delivery "+query.DeliveryID().String())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, picker_id, price, message, status, created_at
		FROM offers
		WHERE delivery_id = ?
		ORDER BY created_at, id
	`, query.DeliveryID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := make([]OfferResponse, 0)
	for rows.Next() {
		var (
			id, pickerID uuid.UUID
			price        decimal.Decimal
			message      string
			status       int
			createdAt    time.Time
		)
		if err = rows.Scan(&id, &pickerID, &price, &message, &status, &createdAt); err != nil {
			return nil, err
		}

		offerID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		picker, idErr := kernel.UUIDFromBytes(pickerID[:])
		if idErr != nil {
			return nil, idErr
		}

		offers = append(offers, OfferResponse{
			ID:         offerID,
			DeliveryID: query.DeliveryID(),
			PickerID:   picker,
			Price:      price.StringFixed(kernel.MoneyScale),
			Message:    message,
			Status:     offer.Status(status).String(),
			CreatedAt:  createdAt.UTC().Format(time.RFC3339),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return offers, nil
}
