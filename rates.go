package ibkrtax

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/etnz/ibkrtax/date"
	"github.com/shopspring/decimal"
)

// DefaultMaxLookback is the number of days the resolver walks back before
// giving up on a currency.
const DefaultMaxLookback = 10

// Table selects one of the official rate series published by the rate source.
type Table string

const (
	// TableA is the primary series of mid rates for the most traded currencies.
	TableA Table = "A"
	// TableB is the secondary series covering the remaining currencies.
	TableB Table = "B"
)

// RateCache stores exchange rates by day and currency. Entries are never
// revised once written.
type RateCache interface {
	// Rate returns the cached rate, and false if none is stored.
	Rate(ctx context.Context, day date.Date, currency string) (decimal.Decimal, bool, error)
	// StoreRates records the same rate for all the given days.
	StoreRates(ctx context.Context, currency string, rate decimal.Decimal, days ...date.Date) error
}

// RateSource is the publisher of official daily exchange rates.
type RateSource interface {
	// Lookup returns the rate published in table for that day, and false if
	// nothing was published. A non nil error means the source could not be
	// reached and says nothing about the day.
	Lookup(ctx context.Context, day date.Date, currency string, table Table) (decimal.Decimal, bool, error)
}

// RateResolver converts foreign currencies into the domestic one.
//
// When no rate is published for a day, the rate of the most recent prior
// publication is used. Every day walked through is written to the cache so the
// next lookup in the same gap is a single cache hit.
type RateResolver struct {
	Domestic    string
	MaxLookback int     // days walked back before failing, DefaultMaxLookback if zero.
	Tables      []Table // tables queried in order, TableA then TableB if empty.

	cache  RateCache
	source RateSource

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRateResolver returns a resolver for the domestic currency backed by cache and source.
func NewRateResolver(domestic string, cache RateCache, source RateSource) *RateResolver {
	return &RateResolver{
		Domestic: domestic,
		cache:    cache,
		source:   source,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lock returns the mutex serializing resolution for currency.
func (r *RateResolver) lock(currency string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.locks == nil {
		r.locks = make(map[string]*sync.Mutex)
	}
	l, ok := r.locks[currency]
	if !ok {
		l = new(sync.Mutex)
		r.locks[currency] = l
	}
	return l
}

func (r *RateResolver) tables() []Table {
	if len(r.Tables) == 0 {
		return []Table{TableA, TableB}
	}
	return r.Tables
}

func (r *RateResolver) maxLookback() int {
	if r.MaxLookback <= 0 {
		return DefaultMaxLookback
	}
	return r.MaxLookback
}

// Resolve returns the number of domestic currency units for one unit of currency on day.
func (r *RateResolver) Resolve(ctx context.Context, day date.Date, currency string) (decimal.Decimal, error) {
	if currency == r.Domestic {
		return decimal.NewFromInt(1), nil
	}

	l := r.lock(currency)
	l.Lock()
	defer l.Unlock()

	// days visited so far without a known rate
	var visited []date.Date
	for i := 0; i <= r.maxLookback(); i++ {
		d := day.Add(-i)

		rate, ok, err := r.cache.Rate(ctx, d, currency)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("cannot read cached %s rate on %s: %w", currency, d, err)
		}
		if ok {
			slog.Debug("rate cache hit", "currency", currency, "day", d, "for", day)
			if err := r.backfill(ctx, currency, rate, visited); err != nil {
				return decimal.Decimal{}, err
			}
			return rate, nil
		}

		visited = append(visited, d)
		rate, ok, err = r.lookup(ctx, d, currency)
		if err != nil {
			return decimal.Decimal{}, err
		}
		if ok {
			if err := r.backfill(ctx, currency, rate, visited); err != nil {
				return decimal.Decimal{}, err
			}
			return rate, nil
		}
	}
	return decimal.Decimal{}, fmt.Errorf("%w: %s between %s and %s", ErrNoRateAvailable, currency, day.Add(-r.maxLookback()), day)
}

// lookup queries every table for day, in order.
func (r *RateResolver) lookup(ctx context.Context, day date.Date, currency string) (decimal.Decimal, bool, error) {
	for _, table := range r.tables() {
		rate, ok, err := r.source.Lookup(ctx, day, currency, table)
		if err != nil {
			return decimal.Decimal{}, false, fmt.Errorf("%w: %s rate on %s (table %s): %w", ErrRateSourceUnavailable, currency, day, table, err)
		}
		if ok && !rate.IsPositive() {
			return decimal.Decimal{}, false, fmt.Errorf("%w: %s rate on %s (table %s) is %v, want a positive rate", ErrRateSourceUnavailable, currency, day, table, rate)
		}
		if ok {
			slog.Info("rate fetched", "currency", currency, "day", day, "table", table, "rate", rate)
			return rate, true, nil
		}
	}
	return decimal.Decimal{}, false, nil
}

func (r *RateResolver) backfill(ctx context.Context, currency string, rate decimal.Decimal, days []date.Date) error {
	if len(days) == 0 {
		return nil
	}
	if err := r.cache.StoreRates(ctx, currency, rate, days...); err != nil {
		return fmt.Errorf("cannot cache %s rate for %d day(s): %w", currency, len(days), err)
	}
	return nil
}
