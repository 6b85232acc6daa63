package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/ibkrtax/date"
	"github.com/google/subcommands"
)

type rateCmd struct{}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "show the exchange rate used for a day" }
func (*rateCmd) Usage() string {
	return `ibkrtax rate <currency> [<date>]

  Prints the rate used to convert one unit of currency into the reporting
  currency on date (today by default), fetching and caching it if needed.
`
}

func (*rateCmd) SetFlags(f *flag.FlagSet) {}

func (*rateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || f.NArg() > 2 {
		fmt.Fprintln(os.Stderr, "rate requires a currency and an optional date")
		return subcommands.ExitUsageError
	}
	currency := strings.ToUpper(f.Arg(0))
	day := date.Today()
	if f.NArg() == 2 {
		var err error
		if day, err = date.Parse(f.Arg(1)); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	cfg, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	resolver, closer, err := openResolver(cfg)
	if err != nil {
		return exitStatus(err)
	}
	defer closer()

	rate, err := resolver.Resolve(ctx, day, currency)
	if err != nil {
		return exitStatus(err)
	}
	fmt.Fprintf(stdout, "1 %s = %s %s on %s\n", currency, rate, cfg.Domestic, day)
	return subcommands.ExitSuccess
}
