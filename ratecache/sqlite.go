// Package ratecache stores exchange rates already fetched from the rate source.
//
// Rates are immutable once published, so entries never expire and are never
// overwritten.
package ratecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/etnz/ibkrtax/date"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS rates (
	day      TEXT NOT NULL,
	currency TEXT NOT NULL,
	rate     TEXT NOT NULL,
	PRIMARY KEY (day, currency)
);`

// Store is a RateCache persisted in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. Use ":memory:" for a throw away cache.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	if path == ":memory:" {
		// every connection would get its own database otherwise
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema migration: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Rate returns the cached rate of currency on day.
func (s *Store) Rate(ctx context.Context, day date.Date, currency string) (decimal.Decimal, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT rate FROM rates WHERE day = ? AND currency = ?`,
		day.String(), currency,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Decimal{}, false, nil
	}
	if err != nil {
		return decimal.Decimal{}, false, err
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("corrupted %s rate on %s: %w", currency, day, err)
	}
	return rate, true, nil
}

// StoreRates records rate for every day in a single transaction. Days already
// cached keep their rate.
func (s *Store) StoreRates(ctx context.Context, currency string, rate decimal.Decimal, days ...date.Date) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO rates (day, currency, rate) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, day := range days {
		if _, err := stmt.ExecContext(ctx, day.String(), currency, rate.String()); err != nil {
			return fmt.Errorf("storing %s rate on %s: %w", currency, day, err)
		}
	}
	return tx.Commit()
}

// Len returns the number of cached rates.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rates`).Scan(&n)
	return n, err
}
