package ibkrtax

import (
	"context"
	"fmt"

	"github.com/etnz/ibkrtax/date"
	"golang.org/x/sync/errgroup"
)

// Transaction is a trade valued in the domestic currency.
//
// UnitCost is the domestic value of one share, commission and exchange rate
// included. It is computed once by a Valuer and never changes.
type Transaction struct {
	Date     date.Date      `json:"date"`
	Type     InstrumentType `json:"type"`
	Symbol   string         `json:"symbol"`
	Exchange string         `json:"exchange"`
	Currency string         `json:"currency"`
	Quantity Quantity       `json:"quantity"`
	UnitCost Money          `json:"unitCost"`
}

// Valuer builds Transactions out of RawTrades.
type Valuer struct {
	rates *RateResolver
}

// NewValuer returns a Valuer converting foreign amounts with rates.
func NewValuer(rates *RateResolver) *Valuer {
	return &Valuer{rates: rates}
}

// Domestic returns the reporting currency.
func (v *Valuer) Domestic() string { return v.rates.Domestic }

// Value computes the unit cost of a trade.
//
// Both proceeds and fee carry the cash flow sign, so the unit cost is positive
// for acquisitions and disposals alike.
func (v *Valuer) Value(ctx context.Context, t RawTrade) (Transaction, error) {
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}

	gross := M(t.Proceeds.Add(t.Fee), t.Currency)
	if t.Currency != v.rates.Domestic {
		rate, err := v.rates.Resolve(ctx, t.Date, t.Currency)
		if err != nil {
			return Transaction{}, fmt.Errorf("cannot value %s %s trade on %s: %w", t.Quantity, t.Symbol, t.Date, err)
		}
		gross = gross.MulRate(rate)
	}

	return Transaction{
		Date:     t.Date,
		Type:     t.Type,
		Symbol:   t.Symbol,
		Exchange: t.Exchange,
		Currency: t.Currency,
		Quantity: t.Quantity,
		UnitCost: gross.Div(t.Quantity).Neg().In(v.rates.Domestic),
	}, nil
}

// ValueAll values a batch of trades, preserving their order.
//
// Trades of different currencies are valued concurrently, trades of the same
// currency one after the other. The first error cancels the batch.
func (v *Valuer) ValueAll(ctx context.Context, trades []RawTrade) ([]Transaction, error) {
	byCurrency := make(map[string][]int)
	for i, t := range trades {
		byCurrency[t.Currency] = append(byCurrency[t.Currency], i)
	}

	txs := make([]Transaction, len(trades))
	g, ctx := errgroup.WithContext(ctx)
	for _, indexes := range byCurrency {
		g.Go(func() error {
			for _, i := range indexes {
				tx, err := v.Value(ctx, trades[i])
				if err != nil {
					return err
				}
				txs[i] = tx
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return txs, nil
}
