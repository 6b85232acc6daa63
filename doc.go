// Package ibkrtax computes the realized capital gains of a brokerage account
// for a tax return filed in another currency.
//
// The core functionalities include:
//   - Statement ingestion: reading Interactive Brokers activity statements,
//     merging overlapping ones without counting a trade twice.
//   - Valuation: converting every trade into the domestic currency with the
//     official rate of its day, falling back to the previous publication on
//     days without one. Rates are cached once fetched.
//   - Matching: closing the oldest open lots first, for long and short
//     positions alike, and producing one realized gain per closing trade.
//   - Reporting: folding realized gains into totals per tax year and
//     jurisdiction of the exchange.
//
// This package serves as the foundational logic for the ibkrtax command-line
// tool. Rate sources and caches are plugged in through the RateSource and
// RateCache interfaces, see packages nbp and ratecache.
package ibkrtax
