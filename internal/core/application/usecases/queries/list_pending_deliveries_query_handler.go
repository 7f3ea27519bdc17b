package queries

import (
	"context"

	"parcelhub/internal/core/domain/model/delivery"

	"gorm.io/gorm"
)

type ListPendingDeliveriesQueryHandler struct {
	db *gorm.DB
}

func NewListPendingDeliveriesQueryHandler(db *gorm.DB) ListPendingDeliveriesQueryHandler {
	return ListPendingDeliveriesQueryHandler{db: db}
}

func (h ListPendingDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query ListPendingDeliveriesQuery,
) ([]DeliveryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+deliveryColumns+`
		FROM deliveries
		WHERE status = ? AND picker_id IS NULL
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, int(delivery.Pending), query.Limit(), query.Offset()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deliveries := make([]DeliveryResponse, 0)
	for rows.Next() {
		var row deliveryRow
		if err = h.db.ScanRows(rows, &row); err != nil {
			return nil, err
		}

		response, convErr := row.response()
		if convErr != nil {
			return nil, convErr
		}
		deliveries = append(deliveries, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return deliveries, nil
}
