package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
)

const statement = `Statement,Data,Period,"January 1, 2023 - December 31, 2023"
Trades,Data,Trade,Stocks,USD,AAPL,"2023-06-02, 10:00:00",ISLAND,10,100,100,-1000,-1,1001,0,0,O
Trades,Data,Trade,Stocks,USD,AAPL,"2023-06-05, 10:00:00",ISLAND,-4,120,120,480,-1,-400,79,0,C
Trades,Data,Trade,Stocks,EUR,SAP,"2023-06-05, 10:00:00",IBIS2,5,100,100,-500,-1,501,0,0,O
`

// setupCLI points the global flags to a temporary cache, a fake NBP server and
// a statement file. It returns the statement path and the captured output.
func setupCLI(t *testing.T) (string, *bytes.Buffer) {
	t.Helper()
	resetFlags(t)
	t.Chdir(t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/a/usd/"):
			fmt.Fprint(w, `{"table":"A","code":"USD","rates":[{"mid":4}]}`)
		case strings.Contains(r.URL.Path, "/a/eur/"):
			fmt.Fprint(w, `{"table":"A","code":"EUR","rates":[{"mid":4.5}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	*nbpURLFlag = srv.URL
	*rateDBFlag = filepath.Join(t.TempDir(), "rates.db")
	*domesticFlag = "PLN"
	*rawFlag = true
	*logLevelFlag = "error"

	file := filepath.Join(t.TempDir(), "2023.csv")
	if err := os.WriteFile(file, []byte(statement), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	old := stdout
	stdout = &out
	t.Cleanup(func() { stdout = old })
	return file, &out
}

func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s: cannot parse %v: %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), f)
}

func TestGainsCmd(t *testing.T) {
	file, out := setupCLI(t)
	if got := run(t, &gainsCmd{}, "-positions", file); got != subcommands.ExitSuccess {
		t.Fatalf("gains exit status = %v, want success", got)
	}
	for _, want := range []string{"# Realized Gains", "## 2023", "USA", "## Open Positions", "AAPL", "SAP"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("gains output does not contain %q:\n%s", want, out)
		}
	}
}

func TestGainsCmd_JSON(t *testing.T) {
	file, out := setupCLI(t)
	if got := run(t, &gainsCmd{}, "-json", file); got != subcommands.ExitSuccess {
		t.Fatalf("gains exit status = %v, want success", got)
	}
	var report struct {
		Currency string
		Years    map[string]map[string]struct {
			Income struct{ Amount string }
		}
	}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON output %s: %v", out, err)
	}
	// buy 10 for 1001 USD at 4, sell 4 for 479 USD at 4
	if got := report.Years["2023"]["USA"].Income.Amount; got != "314.4" {
		t.Errorf("2023 USA income = %q, want 314.4", got)
	}
}

func TestGainsCmd_Usage(t *testing.T) {
	setupCLI(t)
	if got := run(t, &gainsCmd{}); got != subcommands.ExitUsageError {
		t.Errorf("gains without statement exit status = %v, want usage error", got)
	}
	if got := run(t, &gainsCmd{}, "missing.csv"); got != subcommands.ExitFailure {
		t.Errorf("gains with a missing file exit status = %v, want failure", got)
	}
}

func TestTradesCmd(t *testing.T) {
	file, out := setupCLI(t)
	if got := run(t, &tradesCmd{}, "-symbol", "SAP", file); got != subcommands.ExitSuccess {
		t.Fatalf("trades exit status = %v, want success", got)
	}
	if !strings.Contains(out.String(), "SAP") || strings.Contains(out.String(), "AAPL") {
		t.Errorf("trades -symbol SAP output:\n%s", out)
	}
}

func TestRateCmd(t *testing.T) {
	_, out := setupCLI(t)
	if got := run(t, &rateCmd{}, "usd", "2023-06-04"); got != subcommands.ExitSuccess {
		t.Fatalf("rate exit status = %v, want success", got)
	}
	if want := "1 USD = 4 PLN on 2023-06-04\n"; out.String() != want {
		t.Errorf("rate output = %q, want %q", out, want)
	}
	if got := run(t, &rateCmd{}, "usd", "June 4th"); got != subcommands.ExitUsageError {
		t.Errorf("rate with an invalid date exit status = %v, want usage error", got)
	}
}

func TestTopicCmd(t *testing.T) {
	_, out := setupCLI(t)
	if got := run(t, &topicCmd{}, "gains"); got != subcommands.ExitSuccess {
		t.Fatalf("topic exit status = %v, want success", got)
	}
	if !strings.HasPrefix(out.String(), "# Gains") {
		t.Errorf("topic gains output = %q", out)
	}
	if got := run(t, &topicCmd{}, "nope"); got != subcommands.ExitFailure {
		t.Errorf("topic nope exit status = %v, want failure", got)
	}
}

func TestCompletion(t *testing.T) {
	c := Completion()
	for _, name := range []string{"gains", "trades", "rate", "topic"} {
		if _, ok := c.Sub[name]; !ok {
			t.Errorf("no completion for %q", name)
		}
	}
	if got := c.Sub["topic"].Args.Predict(""); len(got) == 0 {
		t.Error("no topic predicted")
	}
	if got := c.Flags["currency"].Predict(""); len(got) != 1 || got[0] != "PLN" {
		t.Errorf("currency completion = %v, want [PLN]", got)
	}
}
