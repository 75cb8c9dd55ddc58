package commission

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Rate is the fixed platform cut applied to seller payouts.
var Rate = decimal.NewFromFloat(0.10)

var ErrNegativeAmount = errors.New("amount must not be negative")

// Commission returns the platform's share of amount, rounded to 2 decimals.
func Commission(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return amount.Mul(Rate).Round(2), nil
}

// Net returns amount minus the platform commission.
func Net(amount decimal.Decimal) (decimal.Decimal, error) {
	c, err := Commission(amount)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Sub(c), nil
}
