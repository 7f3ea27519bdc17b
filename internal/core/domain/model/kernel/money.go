package kernel

import (
	"errors"
	"fmt"

	"parcelhub/internal/pkg/errs"
	"parcelhub/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for every amount.
const MoneyScale = 2

var ErrMoneyIsNotConstructed = errors.New("Money must be created via NewMoney or MoneyFromString")

// Money is a positive amount in the platform currency. Prices, offer bids and
// escrowed payment sums are Money; account balances, which may be zero, are
// plain decimals owned by the ledger.
type Money struct { //nolint:recvcheck //using for validation
	amount decimal.Decimal
	guard  guard.ConstructorGuard
}

// NewMoney rounds amount to cents and requires the result to be greater than zero.
func NewMoney(amount decimal.Decimal) (Money, error) {
	rounded := amount.Round(MoneyScale)
	if !rounded.IsPositive() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("%s is not greater than 0", rounded.StringFixed(MoneyScale)),
		)
	}
	return Money{amount: rounded, guard: guard.NewConstructorGuard()}, nil
}

// MoneyFromString parses a decimal literal such as "40" or "12.50".
func MoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(amount)
}

// MustMoney is NewMoney for literals known to be valid.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}

// MarshalJSON renders the amount as a JSON string to keep cents exact.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}
