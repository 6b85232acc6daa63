package ibkrtax

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/etnz/ibkrtax/date"
	"github.com/shopspring/decimal"
)

// PLN is a helper for test to create zloty money from const
func PLN(v float64) Money { return M(v, "PLN") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// tx is a helper for test to create a valued stock trade on NASDAQ.
func tx(day, symbol string, quantity, unitCost float64) Transaction {
	return Transaction{
		Date:     date.MustParse(day),
		Type:     Stocks,
		Symbol:   symbol,
		Exchange: "NASDAQ",
		Currency: "PLN",
		Quantity: Q(quantity),
		UnitCost: PLN(unitCost),
	}
}

// memCache is a RateCache in a map.
type memCache struct {
	mu    sync.Mutex
	rates map[string]decimal.Decimal
}

func newMemCache() *memCache { return &memCache{rates: make(map[string]decimal.Decimal)} }

func (c *memCache) Rate(_ context.Context, day date.Date, currency string) (decimal.Decimal, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.rates[currency+"/"+day.String()]
	return r, ok, nil
}

func (c *memCache) StoreRates(_ context.Context, currency string, rate decimal.Decimal, days ...date.Date) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range days {
		key := currency + "/" + d.String()
		if _, ok := c.rates[key]; !ok {
			c.rates[key] = rate
		}
	}
	return nil
}

func (c *memCache) has(day, currency string) bool {
	_, ok, _ := c.Rate(context.Background(), date.MustParse(day), currency)
	return ok
}

// fakeSource is a RateSource serving fixed rates per table.
type fakeSource struct {
	mu    sync.Mutex
	rates map[string]float64 // "A/USD/2023-06-02"
	err   error
	calls int
}

func newFakeSource() *fakeSource { return &fakeSource{rates: make(map[string]float64)} }

func (s *fakeSource) set(table Table, currency, day string, rate float64) {
	s.rates[fmt.Sprintf("%s/%s/%s", table, currency, day)] = rate
}

func (s *fakeSource) Lookup(_ context.Context, day date.Date, currency string, table Table) (decimal.Decimal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return decimal.Decimal{}, false, s.err
	}
	r, ok := s.rates[fmt.Sprintf("%s/%s/%s", table, currency, day)]
	if !ok {
		return decimal.Decimal{}, false, nil
	}
	return decimal.NewFromFloat(r), true, nil
}

// panicSource fails the test if the resolver ever reaches the rate source.
type panicSource struct{}

func (panicSource) Lookup(context.Context, date.Date, string, Table) (decimal.Decimal, bool, error) {
	return decimal.Decimal{}, false, errors.New("rate source must not be called")
}
