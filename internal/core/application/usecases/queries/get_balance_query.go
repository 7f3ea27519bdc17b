package queries

import (
	"context"
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/guard"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrGetBalanceQueryIsNotConstructed = errors.New(
	"GetBalanceQuery must be created via NewGetBalanceQuery constructor",
)

// GetBalanceQuery reads a user's own ledger balance.
type GetBalanceQuery struct {
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetBalanceQuery(userID kernel.UUID) (GetBalanceQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetBalanceQuery{}, err
	}
	return GetBalanceQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetBalanceQuery) Validate() error {
	return q.guard.Validate(ErrGetBalanceQueryIsNotConstructed)
}

type BalanceResponse struct {
	UserID  kernel.UUID `json:"userId"`
	Balance string      `json:"balance"`
}

type GetBalanceQueryHandler struct {
	db *gorm.DB
}

func NewGetBalanceQueryHandler(db *gorm.DB) GetBalanceQueryHandler {
	return GetBalanceQueryHandler{db: db}
}

// Handle reports a zero balance for a user without an account.
func (h GetBalanceQueryHandler) Handle(ctx context.Context, query GetBalanceQuery) (BalanceResponse, error) {
	if err := query.Validate(); err != nil {
		return BalanceResponse{}, err
	}

	var balances []decimal.Decimal
	if err := h.db.WithContext(ctx).
		Raw(`SELECT balance FROM accounts WHERE user_id = ?`, query.userID.Bytes()).
		Scan(&balances).Error; err != nil {
		return BalanceResponse{}, err
	}

	balance := decimal.Zero
	if len(balances) > 0 {
		balance = balances[0]
	}
	return BalanceResponse{UserID: query.userID, Balance: balance.StringFixed(kernel.MoneyScale)}, nil
}
