// Package ledgerrepo keeps user balances in the accounts table.
//
// Balances are only changed with single conditional UPDATE statements, so the
// check and the change of a debit cannot interleave with another transaction.
package ledgerrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountDTO struct {
	UserID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Balance   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0;check:balance >= 0"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime:false"`
}

func (AccountDTO) TableName() string {
	return "accounts"
}
