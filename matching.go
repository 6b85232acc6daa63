package ibkrtax

import (
	"slices"
	"strings"

	"github.com/etnz/ibkrtax/date"
)

// RealizedGain is the outcome of one trade closing, fully or partially, an
// open position.
//
// Proceeds and Cost accumulate every lot the closing trade consumed. The
// disposal side of each pairing (the negative quantity) feeds Proceeds, the
// acquisition side feeds Cost.
type RealizedGain struct {
	Date     date.Date
	Year     int
	Symbol   string
	Exchange string
	Quantity Quantity // closed magnitude
	Proceeds Money
	Cost     Money
}

// Income returns Proceeds minus Cost.
func (g RealizedGain) Income() Money { return g.Proceeds.Sub(g.Cost) }

// Position is the open lots of a symbol.
type Position struct {
	Symbol string
	Lots   []Lot
}

// Quantity returns the total open quantity of the position.
func (p Position) Quantity() Quantity {
	var total Quantity
	for _, l := range p.Lots {
		total = total.Add(l.Quantity)
	}
	return total
}

// Cost returns the domestic cost basis of the open lots.
func (p Position) Cost() Money {
	var total Money
	for _, l := range p.Lots {
		total = total.Add(l.UnitCost.Mul(l.Quantity).Abs())
	}
	return total
}

// Engine matches trades against open lots in first-in first-out order.
//
// Trades must be added in chronological order.
type Engine struct {
	queues map[string]*lotQueue
}

// NewEngine returns an engine with no open position.
func NewEngine() *Engine {
	return &Engine{queues: make(map[string]*lotQueue)}
}

// AddTrade applies tx to the position of its symbol.
//
// It returns the realized gain and true when tx closed some lots. Trades
// opening or extending a position, and non equity trades, return false.
func (e *Engine) AddTrade(tx Transaction) (RealizedGain, bool) {
	if !tx.Type.IsEquity() || tx.Quantity.IsZero() {
		return RealizedGain{}, false
	}

	q, ok := e.queues[tx.Symbol]
	if !ok {
		q = new(lotQueue)
		e.queues[tx.Symbol] = q
	}

	incoming := Lot{Date: tx.Date, Exchange: tx.Exchange, Quantity: tx.Quantity, UnitCost: tx.UnitCost}
	if q.Len() == 0 || q.Front().Quantity.SameSide(tx.Quantity) {
		q.PushBack(incoming)
		return RealizedGain{}, false
	}

	gain := RealizedGain{
		Date:     tx.Date,
		Year:     tx.Date.Year(),
		Symbol:   tx.Symbol,
		Exchange: tx.Exchange,
	}
	// pair accumulates the value of matched shares on both legs.
	pair := func(matched Quantity, lot Lot) {
		lotValue := lot.UnitCost.Mul(matched).Abs()
		txValue := tx.UnitCost.Mul(matched).Abs()
		if lot.Quantity.IsNegative() {
			gain.Proceeds = gain.Proceeds.Add(lotValue)
			gain.Cost = gain.Cost.Add(txValue)
		} else {
			gain.Proceeds = gain.Proceeds.Add(txValue)
			gain.Cost = gain.Cost.Add(lotValue)
		}
		gain.Quantity = gain.Quantity.Add(matched)
	}

	remaining := tx.Quantity
	for !remaining.IsZero() {
		if q.Len() == 0 {
			// The position flips: what is left opens on the other side.
			incoming.Quantity = remaining
			q.PushBack(incoming)
			break
		}
		oldest := q.Front()
		if !oldest.Quantity.Abs().GreaterThan(remaining.Abs()) {
			pair(oldest.Quantity.Abs(), oldest)
			remaining = remaining.Add(oldest.Quantity)
			q.PopFront()
			continue
		}
		pair(remaining.Abs(), oldest)
		oldest.Quantity = oldest.Quantity.Add(remaining)
		q.ReplaceFront(oldest)
		remaining = Quantity{}
	}
	return gain, true
}

// Position returns the open lots of symbol, oldest first.
func (e *Engine) Position(symbol string) Position {
	p := Position{Symbol: symbol}
	if q, ok := e.queues[symbol]; ok {
		p.Lots = slices.Collect(q.All())
	}
	return p
}

// Positions returns every non empty position, sorted by symbol.
func (e *Engine) Positions() []Position {
	var positions []Position
	for symbol, q := range e.queues {
		if q.Len() == 0 {
			continue
		}
		positions = append(positions, e.Position(symbol))
	}
	slices.SortFunc(positions, func(a, b Position) int { return strings.Compare(a.Symbol, b.Symbol) })
	return positions
}
