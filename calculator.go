package ibkrtax

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/etnz/ibkrtax/date"
)

// Result is the outcome of a Calculator run.
type Result struct {
	Domestic  string
	Report    Report
	Gains     []RealizedGain // in chronological order
	Positions []Position     // still open at the end of the run
}

// Calculator collects trades from statements and computes the realized gains.
type Calculator struct {
	valuer  *Valuer
	trades  []RawTrade
	periods date.Ranges
}

// NewCalculator returns a Calculator valuing trades with valuer.
func NewCalculator(valuer *Valuer) *Calculator {
	return &Calculator{valuer: valuer}
}

// AddStatement parses a statement and adds its trades.
//
// Trades dated inside the period of a statement added earlier are ignored, so
// overlapping statements never count a trade twice. It returns the number of
// trades added.
func (c *Calculator) AddStatement(r io.Reader) (int, error) {
	st, err := ParseStatement(r)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, t := range st.Trades {
		if c.periods.Contains(t.Date) {
			continue
		}
		c.trades = append(c.trades, t)
		added++
	}
	if c.periods.Overlaps(st.Period) {
		slog.Info("statement overlaps an earlier one, shared days are kept from the first", "period", st.Period)
	}
	slog.Debug("statement added", "period", st.Period, "trades", added, "duplicates", len(st.Trades)-added, "skipped", st.Skipped)
	c.periods.Add(st.Period)
	return added, nil
}

// AddTrades adds trades without any period check.
func (c *Calculator) AddTrades(trades ...RawTrade) {
	c.trades = append(c.trades, trades...)
}

// Trades returns the equity trades collected so far, in chronological order.
func (c *Calculator) Trades() []RawTrade {
	var trades []RawTrade
	for _, t := range c.trades {
		if t.Type.IsEquity() {
			trades = append(trades, t)
		}
	}
	slices.SortStableFunc(trades, func(a, b RawTrade) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		}
		return 0
	})
	return trades
}

// Value values the collected equity trades in the domestic currency.
func (c *Calculator) Value(ctx context.Context) ([]Transaction, error) {
	return c.valuer.ValueAll(ctx, c.Trades())
}

// Process values and matches every collected trade.
func (c *Calculator) Process(ctx context.Context) (*Result, error) {
	txs, err := c.Value(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot value trades: %w", err)
	}

	res := &Result{Domestic: c.valuer.Domestic()}
	engine := NewEngine()
	for _, tx := range txs {
		gain, ok := engine.AddTrade(tx)
		if !ok {
			continue
		}
		res.Gains = append(res.Gains, gain)
		res.Report.Fold(gain)
	}
	res.Positions = engine.Positions()
	slog.Info("trades processed", "trades", len(txs), "gains", len(res.Gains), "open", len(res.Positions))
	return res, nil
}

// Year returns the gains realized in year.
func (r *Result) Year(year int) []RealizedGain {
	var gains []RealizedGain
	for _, g := range r.Gains {
		if g.Year == year {
			gains = append(gains, g)
		}
	}
	return gains
}

// MarshalJSON writes the report followed by the open positions.
func (r *Result) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currency", r.Domestic)
	w.Append("years", &r.Report)
	var positions []jsonPosition
	for _, p := range r.Positions {
		positions = append(positions, jsonPosition{Symbol: p.Symbol, Quantity: p.Quantity()})
	}
	w.Optional("positions", positions)
	return w.MarshalJSON()
}

type jsonPosition struct {
	Symbol   string   `json:"symbol"`
	Quantity Quantity `json:"quantity"`
}
