// Package ledger implements the average-cost accounting applied to a
// holding when a BUY or SELL is committed. Functions here are pure:
// they take the current position and return the next one, leaving
// persistence and locking to the caller.
package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInsufficientQuantity is returned by ApplySell when the sell
// quantity exceeds the held quantity. The caller must reject the
// transaction before any state is mutated.
var ErrInsufficientQuantity = errors.New("sell quantity exceeds held quantity")

// Position is the quantity/invested pair of a holding.
type Position struct {
	Quantity decimal.Decimal
	Invested decimal.Decimal
}

// AverageCost returns invested capital per held unit, or zero for an
// empty position.
func (p Position) AverageCost() decimal.Decimal {
	if p.Invested.IsPositive() && p.Quantity.IsPositive() {
		return p.Invested.Div(p.Quantity)
	}
	return decimal.Zero
}

// ApplyBuy returns the position after buying quantity units at
// unitPrice each. Invested capital grows by the full purchase cost, so
// the average cost basis becomes the weighted average across all buys.
func ApplyBuy(p Position, quantity, unitPrice decimal.Decimal) Position {
	return Position{
		Quantity: p.Quantity.Add(quantity),
		Invested: p.Invested.Add(quantity.Mul(unitPrice)),
	}
}

// ApplySell returns the position after selling quantity units. Each
// sold unit is valued at the current average cost; the per-unit cost of
// the remaining position is unchanged. Sale proceeds are not added back
// to invested capital — the ledger tracks cost basis only, and realized
// gains are left to read-time P/L computation.
//
// The subtraction is clamped at zero so numeric drift can never leave a
// negative invested amount.
func ApplySell(p Position, quantity decimal.Decimal) (Position, error) {
	if quantity.GreaterThan(p.Quantity) {
		return Position{}, ErrInsufficientQuantity
	}

	invested := p.Invested.Sub(p.AverageCost().Mul(quantity))
	if invested.IsNegative() {
		invested = decimal.Zero
	}

	return Position{
		Quantity: p.Quantity.Sub(quantity),
		Invested: invested,
	}, nil
}
