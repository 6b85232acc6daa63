package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ibkrtax/renderer"
	"github.com/google/subcommands"
)

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	year      int
	details   bool
	positions bool
	json      bool
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "realized gains per tax year and country" }
func (*gainsCmd) Usage() string {
	return `ibkrtax gains [-year <year>] [-details] [-positions] [-json] <statement.csv>...

  Matches the trades of the statements first in first out and reports the
  realized gains in the reporting currency, per tax year and country.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", 0, "Report only this tax year")
	f.BoolVar(&c.details, "details", false, "List every realized gain")
	f.BoolVar(&c.positions, "positions", false, "List the positions still open")
	f.BoolVar(&c.json, "json", false, "Print the report as JSON")
}

func (c *gainsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "gains requires at least one statement file")
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

	res, err := calc.Process(ctx)
	if err != nil {
		return exitStatus(err)
	}

	if c.json {
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return exitStatus(err)
		}
		fmt.Fprintln(stdout, string(b))
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.GainsMarkdown(res, renderer.GainsOptions{
		Year:      c.year,
		Details:   c.details,
		Positions: c.positions,
	}))
	return subcommands.ExitSuccess
}
