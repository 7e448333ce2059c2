package kernel

import (
	"fmt"

	"posadmin/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places Money is rounded to.
// All monetary results are expressed in the smallest currency unit (cents).
const MoneyScale = 2

// Money represents a non-negative monetary amount in the store's currency.
// Money is an immutable value object backed by arbitrary-precision decimal
// arithmetic; it never uses binary floating point. The zero value of Money
// is a valid amount of 0.00.
//
// Rounding policy: half-up to the smallest currency unit. Since Money is
// never negative, rounding half away from zero and rounding half-up are
// equivalent.
//
// Example:
//
//	price, err := kernel.NewMoneyFromString("5.00")
//	if err != nil {
//	    // Handle validation error
//	}
//	total := price.MulInt(10) // 50.00
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates a Money value from a decimal amount.
// Negative amounts are rejected: monetary values in the purchasing domain
// (unit prices, tax amounts, totals) are never negative.
//
// Parameters:
//   - amount: The decimal amount (must be >= 0)
//
// Returns:
//   - Money: A valid money instance
//   - error: Validation error if the amount is negative
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"money amount",
			fmt.Errorf("%s is negative", amount.String()),
		)
	}
	return Money{amount: amount}, nil
}

// NewMoneyFromString parses a Money value from its decimal string
// representation, e.g. "12.50". Returns an error for malformed strings
// or negative amounts.
func NewMoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money amount", err)
	}
	return NewMoney(amount)
}

// ZeroMoney returns a Money value of 0.00.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// Amount returns the underlying decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Add returns the sum of two Money values.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// MulInt returns the Money value multiplied by a non-negative integer
// quantity, rounded to the smallest currency unit.
func (m Money) MulInt(quantity int) Money {
	product := m.amount.Mul(decimal.NewFromInt(int64(quantity)))
	return Money{amount: product.Round(MoneyScale)}
}

// MulRatePercent applies a percentage rate to the Money value, rounded
// half-up to the smallest currency unit. Used to derive an absolute tax
// amount from a user-supplied rate at order creation time.
func (m Money) MulRatePercent(rate decimal.Decimal) Money {
	product := m.amount.Mul(rate).Div(decimal.NewFromInt(100))
	return Money{amount: product.Round(MoneyScale)}
}

// Round returns the Money value rounded half-up to the smallest currency unit.
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(MoneyScale)}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsEqual compares two Money values numerically, ignoring trailing zeros.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String returns the amount formatted with two decimal places, e.g. "40.00".
func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}
