// Package cmd implements the ibkrtax command line application.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/etnz/ibkrtax"
	"github.com/etnz/ibkrtax/nbp"
	"github.com/etnz/ibkrtax/ratecache"
	"github.com/google/subcommands"
)

// stdout receives the command outputs.
var stdout io.Writer = os.Stdout

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(&topicCmd{}, "")

	c.Register(&gainsCmd{}, "report")
	c.Register(&tradesCmd{}, "report")
	c.Register(&rateCmd{}, "rates")
}

// setup loads the configuration and installs the logger.
func setup() (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	initLogger(cfg.LogLevel, *logFormatFlag)
	return cfg, nil
}

// openResolver returns a rate resolver backed by the SQLite cache and the NBP API.
// The returned function closes the cache.
func openResolver(cfg *Config) (*ibkrtax.RateResolver, func() error, error) {
	store, err := ratecache.Open(cfg.RateDB)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open rate cache %q: %w", cfg.RateDB, err)
	}
	source := nbp.New(nbp.WithBaseURL(cfg.NBPURL), nbp.WithRateLimit(cfg.NBPRPS))
	r := ibkrtax.NewRateResolver(cfg.Domestic, ratecache.NewMemory(store), source)
	r.MaxLookback = cfg.MaxLookback
	return r, store.Close, nil
}

// openCalculator reads every statement file into a new Calculator.
func openCalculator(cfg *Config, files []string) (*ibkrtax.Calculator, func() error, error) {
	if len(files) == 0 {
		return nil, nil, errors.New("at least one statement file is required")
	}
	resolver, closer, err := openResolver(cfg)
	if err != nil {
		return nil, nil, err
	}
	calc := ibkrtax.NewCalculator(ibkrtax.NewValuer(resolver))
	var errs error
	for _, name := range files {
		errs = errors.Join(errs, addStatement(calc, name))
	}
	if errs != nil {
		closer()
		return nil, nil, errs
	}
	return calc, closer, nil
}

func addStatement(calc *ibkrtax.Calculator, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	n, err := calc.AddStatement(f)
	if err != nil {
		return fmt.Errorf("cannot read statement %q: %w", name, err)
	}
	slog.Info("statement loaded", "file", name, "trades", n)
	return nil
}

// exitStatus reports err on stderr and maps it to an exit status.
func exitStatus(err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
