package queries

import (
	"context"

	"parcelhub/internal/core/domain/model/delivery"
	"parcelhub/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetDeliveryQueryHandler returns a delivery to its participants. While a
// delivery is still open for offers any user may read it, as pickers need
// the details to bid.
type GetDeliveryQueryHandler struct {
	db *gorm.DB
}

func NewGetDeliveryQueryHandler(db *gorm.DB) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{db: db}
}

func (h GetDeliveryQueryHandler) Handle(ctx context.Context, query GetDeliveryQuery) (DeliveryResponse, error) {
	if err := query.Validate(); err != nil {
		return DeliveryResponse{}, err
	}

	var rows []deliveryRow
	err := h.db.WithContext(ctx).
		Raw(`SELECT `+deliveryColumns+` FROM deliveries WHERE id = ?`, query.DeliveryID().Bytes()).
		Scan(&rows).Error
	if err != nil {
		return DeliveryResponse{}, err
	}
	if len(rows) == 0 {
		return DeliveryResponse{}, errs.NewObjectNotFoundError("delivery", query.DeliveryID())
	}

	row := rows[0]
	open := row.Status == int(delivery.Pending) && row.PickerID == nil
	if !open && !row.involves(query.ActorID()) {
		return DeliveryResponse{}, errs.NewForbiddenError(query.ActorID(), "view delivery "+query.DeliveryID().String())
	}

	return row.response()
}
