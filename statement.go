package ibkrtax

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/etnz/ibkrtax/date"
	"github.com/shopspring/decimal"
)

// Layouts used by the broker's activity statements.
const (
	periodLayout = "January 2, 2006"
	tradeLayout  = "2006-01-02, 15:04:05"
)

// ErrMissingPeriod is returned for a statement without its reporting period.
var ErrMissingPeriod = errors.New("statement has no period")

// Statement is the content of one activity statement.
type Statement struct {
	Period  date.Range
	Trades  []RawTrade
	Skipped int // malformed trade rows
}

// ParseStatement reads an activity statement exported as CSV.
//
// Only the statement period and the executed trades are read, every other
// section is ignored. Malformed trade rows are logged and skipped.
func ParseStatement(r io.Reader) (Statement, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var st Statement
	periodFound := false
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Statement{}, fmt.Errorf("cannot read statement row %d: %w", row, err)
		}
		if row == 1 && len(record) > 0 {
			record[0] = strings.TrimPrefix(record[0], "\ufeff")
		}
		if len(record) < 4 || record[1] != "Data" {
			continue
		}

		switch {
		case record[0] == "Statement" && record[2] == "Period":
			period, err := parsePeriod(record[3])
			if err != nil {
				return Statement{}, fmt.Errorf("statement row %d: %w", row, err)
			}
			st.Period = period
			periodFound = true

		case record[0] == "Trades" && (record[2] == "Trade" || record[2] == "Order"):
			trade, err := parseTrade(record)
			if err != nil {
				slog.Warn("skipping malformed trade", "row", row, "error", err)
				st.Skipped++
				continue
			}
			st.Trades = append(st.Trades, trade)
		}
	}

	if !periodFound {
		return Statement{}, ErrMissingPeriod
	}
	return st, nil
}

// parsePeriod parses "January 1, 2023 - December 31, 2023".
func parsePeriod(s string) (date.Range, error) {
	from, to, ok := strings.Cut(s, " - ")
	if !ok {
		return date.Range{}, fmt.Errorf("invalid period %q", s)
	}
	start, err := date.ParseLayout(periodLayout, strings.TrimSpace(from))
	if err != nil {
		return date.Range{}, fmt.Errorf("invalid period start %q: %w", from, err)
	}
	end, err := date.ParseLayout(periodLayout, strings.TrimSpace(to))
	if err != nil {
		return date.Range{}, fmt.Errorf("invalid period end %q: %w", to, err)
	}
	return date.NewRange(start, end), nil
}

func parseTrade(record []string) (RawTrade, error) {
	if len(record) < 13 {
		return RawTrade{}, fmt.Errorf("%w: %d columns, want at least 13", ErrInvalidTrade, len(record))
	}
	when, err := time.Parse(tradeLayout, record[6])
	if err != nil {
		return RawTrade{}, fmt.Errorf("%w: invalid date %q", ErrInvalidTrade, record[6])
	}
	quantity, err := parseNumber(record[8])
	if err != nil {
		return RawTrade{}, fmt.Errorf("%w: invalid quantity %q", ErrInvalidTrade, record[8])
	}
	proceeds, err := parseNumber(record[11])
	if err != nil {
		return RawTrade{}, fmt.Errorf("%w: invalid proceeds %q", ErrInvalidTrade, record[11])
	}
	fee, err := parseNumber(record[12])
	if err != nil {
		return RawTrade{}, fmt.Errorf("%w: invalid fee %q", ErrInvalidTrade, record[12])
	}
	trade := RawTrade{
		Date:     date.Of(when),
		Type:     InstrumentType(record[3]),
		Currency: record[4],
		Symbol:   record[5],
		Exchange: record[7],
		Quantity: Q(quantity),
		Proceeds: proceeds,
		Fee:      fee,
	}
	if err := trade.Validate(); err != nil {
		return RawTrade{}, err
	}
	return trade, nil
}

// parseNumber parses a decimal that may carry thousands separators.
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "--" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
