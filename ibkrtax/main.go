// Command ibkrtax computes the realized capital gains of Interactive Brokers statements.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"

	"github.com/etnz/ibkrtax/cmd"
	"github.com/google/subcommands"
)

func main() {
	cmd.Completion().Complete("ibkrtax")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	flag.Parse()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}
