package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ibkrtax"
	"github.com/etnz/ibkrtax/renderer"
	"github.com/google/subcommands"
)

type tradesCmd struct {
	symbol string
	json   bool
}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "list the valued stock trades" }
func (*tradesCmd) Usage() string {
	return `ibkrtax trades [-symbol <symbol>] [-json] <statement.csv>...

  Lists the stock trades of the statements, oldest first, with their unit
  cost in the reporting currency.
`
}

func (c *tradesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "List only the trades of this symbol")
	f.BoolVar(&c.json, "json", false, "Print the trades as JSON")
}

func (c *tradesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "trades requires at least one statement file")
		return subcommands.ExitUsageError
	}
	cfg, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitUsageError
	}

	calc, closer, err := openCalculator(cfg, f.Args())
	if err != nil {
		return exitStatus(err)
	}
	defer closer()

	txs, err := calc.Value(ctx)
	if err != nil {
		return exitStatus(err)
	}
	if c.symbol != "" {
		var selected []ibkrtax.Transaction
		for _, tx := range txs {
			if tx.Symbol == c.symbol {
				selected = append(selected, tx)
			}
		}
		txs = selected
	}

	if c.json {
		b, err := json.MarshalIndent(txs, "", "  ")
		if err != nil {
			return exitStatus(err)
		}
		fmt.Fprintln(stdout, string(b))
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.TradesMarkdown(txs))
	return subcommands.ExitSuccess
}
