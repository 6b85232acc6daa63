package ibkrtax

import "errors"

var (
	// ErrInvalidTrade reports a trade record that cannot take part in matching:
	// zero quantity, missing field or unparseable number.
	ErrInvalidTrade = errors.New("invalid trade")

	// ErrNoRateAvailable reports that no exchange rate was published within the
	// lookback window before the requested day.
	ErrNoRateAvailable = errors.New("no exchange rate available")

	// ErrRateSourceUnavailable reports a transport or server failure of the rate
	// source. Such failures are never cached.
	ErrRateSourceUnavailable = errors.New("rate source unavailable")
)
