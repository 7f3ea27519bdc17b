package ledgerrepo

import (
	"context"
	"errors"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLedgerRepository implements ports.LedgerRepository using GORM.
type GormLedgerRepository struct {
	db *gorm.DB
}

func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Debit runs UPDATE ... SET balance = balance - amount WHERE balance >= amount.
// When no row matches it tells a missing account from an insufficient balance.
func (r *GormLedgerRepository) Debit(ctx context.Context, userID kernel.UUID, amount kernel.Money) error {
	if err := errors.Join(userID.Validate(), amount.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&AccountDTO{}).
		Where("user_id = ? AND balance >= ?", userID.Bytes(), amount.Decimal()).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance - ?", amount.Decimal()),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&AccountDTO{}).Where("user_id = ?", userID.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("account", userID.String())
	}
	return errs.NewInsufficientFundsError(userID, amount)
}

// Credit upserts the account, adding amount to an existing balance.
func (r *GormLedgerRepository) Credit(ctx context.Context, userID kernel.UUID, amount kernel.Money) error {
	if err := errors.Join(userID.Validate(), amount.Validate()); err != nil {
		return err
	}

	dto := AccountDTO{
		UserID:    userID.Bytes(),
		Balance:   amount.Decimal(),
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"balance":    gorm.Expr("accounts.balance + EXCLUDED.balance"),
				"updated_at": gorm.Expr("EXCLUDED.updated_at"),
			}),
		}).
		Create(&dto).Error
}

func (r *GormLedgerRepository) Balance(ctx context.Context, userID kernel.UUID) (decimal.Decimal, error) {
	if err := userID.Validate(); err != nil {
		return decimal.Zero, err
	}

	var dto AccountDTO
	if err := r.db.WithContext(ctx).First(&dto, "user_id = ?", userID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, errs.NewObjectNotFoundError("account", userID.String())
		}
		return decimal.Zero, err
	}
	return dto.Balance, nil
}
