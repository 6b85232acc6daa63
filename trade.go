package ibkrtax

import (
	"fmt"

	"github.com/etnz/ibkrtax/date"
	"github.com/shopspring/decimal"
)

// InstrumentType is the asset category of a trade as reported by the broker.
type InstrumentType string

const (
	// Stocks is the only instrument type taking part in lot matching.
	Stocks InstrumentType = "Stocks"
	Forex  InstrumentType = "Forex"
)

// IsEquity reports whether trades of this type are matched.
func (t InstrumentType) IsEquity() bool { return t == Stocks }

// RawTrade is one executed trade as read from a statement, before valuation.
//
// Proceeds and Fee are expressed in Currency and follow the broker's cash flow
// sign convention: an acquisition has negative proceeds and positive quantity,
// a disposal has positive proceeds and negative quantity. Fees are negative.
type RawTrade struct {
	Date     date.Date
	Type     InstrumentType
	Symbol   string
	Exchange string
	Currency string
	Quantity Quantity
	Proceeds decimal.Decimal
	Fee      decimal.Decimal
}

// Validate checks that the trade can be valued and matched.
func (t RawTrade) Validate() error {
	if t.Quantity.IsZero() {
		return fmt.Errorf("%w: zero quantity for %q on %s", ErrInvalidTrade, t.Symbol, t.Date)
	}
	if t.Symbol == "" {
		return fmt.Errorf("%w: missing symbol on %s", ErrInvalidTrade, t.Date)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: missing date for %q", ErrInvalidTrade, t.Symbol)
	}
	if err := ValidateCurrency(t.Currency); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTrade, err)
	}
	return nil
}
