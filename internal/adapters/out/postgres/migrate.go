package postgres

import (
	"parcelhub/internal/adapters/out/postgres/chatrepo"
	"parcelhub/internal/adapters/out/postgres/deliveryrepo"
	"parcelhub/internal/adapters/out/postgres/idempotencyrepo"
	"parcelhub/internal/adapters/out/postgres/ledgerrepo"
	"parcelhub/internal/adapters/out/postgres/offerrepo"
	"parcelhub/internal/adapters/out/postgres/paymentrepo"
	"parcelhub/internal/adapters/out/postgres/trackingrepo"

	"gorm.io/gorm"
)

// Tables lists every table owned by this service, in truncation-safe order.
var Tables = []string{
	"deliveries", "offers", "payment_records", "tracking_records", "accounts", "idempotency_keys", "chats",
}

// Migrate creates or updates the schema of every DTO.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&deliveryrepo.DeliveryDTO{},
		&offerrepo.OfferDTO{},
		&paymentrepo.PaymentDTO{},
		&trackingrepo.TrackingDTO{},
		&ledgerrepo.AccountDTO{},
		&idempotencyrepo.IdempotencyDTO{},
		&chatrepo.ChatDTO{},
	)
}
