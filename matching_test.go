package ibkrtax

import (
	"testing"
)

func TestEngine_PartialFill(t *testing.T) {
	e := NewEngine()
	if _, ok := e.AddTrade(tx("2023-01-10", "AAPL", 100, 10)); ok {
		t.Fatal("AddTrade(buy) realized a gain on an empty position")
	}
	if _, ok := e.AddTrade(tx("2023-02-10", "AAPL", 50, 12)); ok {
		t.Fatal("AddTrade(buy) realized a gain on a long position")
	}

	gain, ok := e.AddTrade(tx("2023-03-10", "AAPL", -120, 15))
	if !ok {
		t.Fatal("AddTrade(sell) did not realize a gain")
	}
	if want := PLN(1800); !gain.Proceeds.Equal(want) {
		t.Errorf("Proceeds = %v, want %v", gain.Proceeds, want)
	}
	if want := PLN(1240); !gain.Cost.Equal(want) {
		t.Errorf("Cost = %v, want %v", gain.Cost, want)
	}
	if want := PLN(560); !gain.Income().Equal(want) {
		t.Errorf("Income() = %v, want %v", gain.Income(), want)
	}
	if want := Q(120); !gain.Quantity.Equal(want) {
		t.Errorf("Quantity = %v, want %v", gain.Quantity, want)
	}
	if gain.Year != 2023 || gain.Exchange != "NASDAQ" {
		t.Errorf("gain = %d %s, want 2023 NASDAQ", gain.Year, gain.Exchange)
	}

	lots := e.Position("AAPL").Lots
	if len(lots) != 1 {
		t.Fatalf("len(Lots) = %d, want 1", len(lots))
	}
	if !lots[0].Quantity.Equal(Q(30)) || !lots[0].UnitCost.Equal(PLN(12)) {
		t.Errorf("remaining lot = %v @ %v, want 30 @ 12", lots[0].Quantity, lots[0].UnitCost)
	}
}

func TestEngine_FIFOOrder(t *testing.T) {
	e := NewEngine()
	e.AddTrade(tx("2023-01-01", "X", 10, 1))
	e.AddTrade(tx("2023-01-02", "X", 10, 2))
	e.AddTrade(tx("2023-01-03", "X", 10, 3))

	// The first sale must consume the oldest lot only.
	gain, _ := e.AddTrade(tx("2023-01-04", "X", -10, 5))
	if want := PLN(10); !gain.Cost.Equal(want) {
		t.Errorf("first sale Cost = %v, want %v", gain.Cost, want)
	}
	gain, _ = e.AddTrade(tx("2023-01-05", "X", -15, 5))
	if want := PLN(20 + 15); !gain.Cost.Equal(want) {
		t.Errorf("second sale Cost = %v, want %v", gain.Cost, want)
	}

	lots := e.Position("X").Lots
	if len(lots) != 1 || !lots[0].UnitCost.Equal(PLN(3)) || !lots[0].Quantity.Equal(Q(5)) {
		t.Errorf("Lots = %v, want a single 5 @ 3 lot", lots)
	}
}

func TestEngine_Conservation(t *testing.T) {
	trades := []Transaction{
		tx("2023-01-01", "X", 7, 1),
		tx("2023-01-02", "X", 3, 1),
		tx("2023-01-03", "X", -4, 1),
		tx("2023-01-04", "X", -9, 1),
		tx("2023-01-05", "X", 2, 1),
		tx("2023-01-06", "X", 5.5, 1),
		tx("2023-01-07", "X", -1.5, 1),
	}
	e := NewEngine()
	var sum Quantity
	for _, trade := range trades {
		e.AddTrade(trade)
		sum = sum.Add(trade.Quantity)
		if got := e.Position("X").Quantity(); !got.Equal(sum) {
			t.Fatalf("after %s open quantity = %v, want %v", trade.Date, got, sum)
		}
	}
	// Every lot of a position is on the same side.
	for _, l := range e.Position("X").Lots {
		if !l.Quantity.IsPositive() {
			t.Errorf("lot %v is not on the long side", l.Quantity)
		}
	}
}

func TestEngine_ShortOpenThenClose(t *testing.T) {
	e := NewEngine()
	if _, ok := e.AddTrade(tx("2023-05-02", "TSLA", -10, 20)); ok {
		t.Fatal("short sale on an empty position realized a gain")
	}
	gain, ok := e.AddTrade(tx("2023-05-03", "TSLA", 10, 15))
	if !ok {
		t.Fatal("covering buy did not realize a gain")
	}
	if !gain.Proceeds.Equal(PLN(200)) || !gain.Cost.Equal(PLN(150)) {
		t.Errorf("gain = %v / %v, want proceeds 200 and cost 150", gain.Proceeds, gain.Cost)
	}
	if got := e.Positions(); len(got) != 0 {
		t.Errorf("Positions() = %v, want none", got)
	}
}

func TestEngine_DrainedThenReopened(t *testing.T) {
	e := NewEngine()
	e.AddTrade(tx("2023-01-01", "X", 10, 10))
	e.AddTrade(tx("2023-01-02", "X", -10, 12))
	if _, ok := e.AddTrade(tx("2023-01-03", "X", 5, 11)); ok {
		t.Fatal("reopening buy realized a gain")
	}

	lots := e.Position("X").Lots
	if len(lots) != 1 {
		t.Fatalf("len(Lots) = %d, want exactly one lot", len(lots))
	}
	if !lots[0].Quantity.Equal(Q(5)) {
		t.Errorf("lot quantity = %v, want 5", lots[0].Quantity)
	}
}

func TestEngine_PositionFlip(t *testing.T) {
	e := NewEngine()
	e.AddTrade(tx("2023-01-01", "X", 10, 10))
	gain, ok := e.AddTrade(tx("2023-01-02", "X", -15, 12))
	if !ok {
		t.Fatal("sale did not realize a gain")
	}
	if !gain.Quantity.Equal(Q(10)) {
		t.Errorf("closed quantity = %v, want 10", gain.Quantity)
	}
	if !gain.Proceeds.Equal(PLN(120)) || !gain.Cost.Equal(PLN(100)) {
		t.Errorf("gain = %v / %v, want proceeds 120 and cost 100", gain.Proceeds, gain.Cost)
	}
	lots := e.Position("X").Lots
	if len(lots) != 1 || !lots[0].Quantity.Equal(Q(-5)) || !lots[0].UnitCost.Equal(PLN(12)) {
		t.Errorf("Lots = %v, want a single -5 @ 12 lot", lots)
	}
}

func TestEngine_IgnoresNonEquity(t *testing.T) {
	e := NewEngine()
	fx := tx("2023-01-01", "USD.PLN", 1000, 4)
	fx.Type = Forex
	if _, ok := e.AddTrade(fx); ok {
		t.Error("forex trade realized a gain")
	}
	if got := e.Positions(); len(got) != 0 {
		t.Errorf("Positions() = %v, want none", got)
	}
}

func TestEngine_Positions(t *testing.T) {
	e := NewEngine()
	e.AddTrade(tx("2023-01-01", "MSFT", 1, 1))
	e.AddTrade(tx("2023-01-01", "AAPL", 2, 1))
	e.AddTrade(tx("2023-01-01", "IBM", 3, 1))
	e.AddTrade(tx("2023-01-02", "IBM", -3, 1))

	got := e.Positions()
	if len(got) != 2 || got[0].Symbol != "AAPL" || got[1].Symbol != "MSFT" {
		t.Errorf("Positions() = %v, want AAPL then MSFT", got)
	}
}
