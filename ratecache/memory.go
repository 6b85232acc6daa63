package ratecache

import (
	"context"

	"github.com/etnz/ibkrtax"
	"github.com/etnz/ibkrtax/date"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// Memory is an in-process RateCache.
//
// With a backing cache it reads through on a miss and writes to both.
type Memory struct {
	items   *cache.Cache
	backing ibkrtax.RateCache
}

// NewMemory returns an empty Memory in front of backing, which may be nil.
func NewMemory(backing ibkrtax.RateCache) *Memory {
	return &Memory{
		items:   cache.New(cache.NoExpiration, 0),
		backing: backing,
	}
}

func key(day date.Date, currency string) string { return currency + "/" + day.String() }

func (m *Memory) Rate(ctx context.Context, day date.Date, currency string) (decimal.Decimal, bool, error) {
	if v, ok := m.items.Get(key(day, currency)); ok {
		return v.(decimal.Decimal), true, nil
	}
	if m.backing == nil {
		return decimal.Decimal{}, false, nil
	}
	rate, ok, err := m.backing.Rate(ctx, day, currency)
	if err != nil || !ok {
		return decimal.Decimal{}, false, err
	}
	m.items.SetDefault(key(day, currency), rate)
	return rate, true, nil
}

func (m *Memory) StoreRates(ctx context.Context, currency string, rate decimal.Decimal, days ...date.Date) error {
	if m.backing != nil {
		if err := m.backing.StoreRates(ctx, currency, rate, days...); err != nil {
			return err
		}
	}
	for _, day := range days {
		// Add fails on existing keys, which keeps the first rate.
		_ = m.items.Add(key(day, currency), rate, cache.NoExpiration)
	}
	return nil
}

// Len returns the number of rates held in memory.
func (m *Memory) Len() int { return m.items.ItemCount() }
