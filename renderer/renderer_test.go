package renderer

import (
	"strings"
	"testing"

	"github.com/etnz/ibkrtax"
	"github.com/etnz/ibkrtax/date"
)

func usdTx(day, symbol, exchange string, quantity, unitCost float64) ibkrtax.Transaction {
	return ibkrtax.Transaction{
		Date:     date.MustParse(day),
		Type:     ibkrtax.Stocks,
		Symbol:   symbol,
		Exchange: exchange,
		Currency: "USD",
		Quantity: ibkrtax.Q(quantity),
		UnitCost: ibkrtax.M(unitCost, "USD"),
	}
}

func testResult() *ibkrtax.Result {
	e := ibkrtax.NewEngine()
	res := &ibkrtax.Result{Domestic: "USD"}
	for _, tx := range []ibkrtax.Transaction{
		usdTx("2023-01-10", "AAPL", "ISLAND", 100, 10),
		usdTx("2023-02-10", "AAPL", "ISLAND", 50, 12),
		usdTx("2023-03-10", "AAPL", "ISLAND", -120, 15),
		usdTx("2024-01-10", "SAP", "IBIS2", 10, 100),
		usdTx("2024-02-10", "SAP", "IBIS2", -10, 90),
	} {
		if g, ok := e.AddTrade(tx); ok {
			res.Gains = append(res.Gains, g)
			res.Report.Fold(g)
		}
	}
	res.Positions = e.Positions()
	return res
}

func assertContains(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("output does not contain %q:\n%s", w, got)
		}
	}
}

func TestGainsMarkdown(t *testing.T) {
	got := GainsMarkdown(testResult(), GainsOptions{})
	assertContains(t, got,
		"# Realized Gains",
		"## 2023",
		"## 2024",
		"USA",
		"Germany",
		"$1,800.00",
		"$1,240.00",
		"+$560.00",
		"-$100.00",
		"**Total**",
	)
	if strings.Contains(got, "Open Positions") {
		t.Errorf("open positions rendered without the option:\n%s", got)
	}
}

func TestGainsMarkdown_Options(t *testing.T) {
	got := GainsMarkdown(testResult(), GainsOptions{Year: 2023, Details: true, Positions: true})
	assertContains(t, got,
		"## 2023",
		"### Disposals",
		"2023-03-10",
		"## Open Positions",
		"$360.00", // 30 shares at 12
	)
	if strings.Contains(got, "## 2024") {
		t.Errorf("2024 rendered while only 2023 was requested:\n%s", got)
	}

	empty := GainsMarkdown(testResult(), GainsOptions{Year: 2020})
	assertContains(t, empty, "No realized gains.")
}

func TestTradesMarkdown(t *testing.T) {
	got := TradesMarkdown([]ibkrtax.Transaction{
		usdTx("2023-01-10", "AAPL", "ISLAND", 100, 10),
		usdTx("2023-03-10", "AAPL", "ISLAND", -120, 15),
	})
	assertContains(t, got, "# Trades", "AAPL", "ISLAND", "-120", "$15.00", "$1,800.00")

	assertContains(t, TradesMarkdown(nil), "No trades.")
}
