package cmd

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/ibkrtax"
	"github.com/etnz/ibkrtax/nbp"
	"github.com/joho/godotenv"
)

// Environment variables read by LoadConfig.
const (
	EnvDomesticCurrency = "IBKRTAX_DOMESTIC_CURRENCY"
	EnvRateDB           = "IBKRTAX_RATE_DB"
	EnvNBPURL           = "IBKRTAX_NBP_URL"
	EnvMaxLookback      = "IBKRTAX_MAX_LOOKBACK"
	EnvNBPRPS           = "IBKRTAX_NBP_RPS"
	EnvLogLevel         = "IBKRTAX_LOG_LEVEL"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	domesticFlag    = flag.String("currency", "", "Reporting currency, only PLN is supported (default $"+EnvDomesticCurrency+" or PLN)")
	rateDBFlag      = flag.String("db", "", "Path of the exchange rate cache (default $"+EnvRateDB+" or currencies.db)")
	nbpURLFlag      = flag.String("nbp-url", "", "Base URL of the NBP API (default $"+EnvNBPURL+")")
	maxLookbackFlag = flag.Int("max-lookback", 0, "Days walked back to find an exchange rate (default $"+EnvMaxLookback+" or 10)")
	nbpRPSFlag      = flag.Float64("nbp-rps", 0, "Requests per second sent to NBP (default $"+EnvNBPRPS+" or 5)")
	logLevelFlag    = flag.String("log-level", "", "Log level: debug, info, warn or error (default $"+EnvLogLevel+" or info)")
	logFormatFlag   = flag.String("log-format", "text", "Log format: text or json")
	rawFlag         = flag.Bool("raw", false, "Print plain markdown instead of rendering it for the terminal")
)

// Config holds the settings shared by all commands.
type Config struct {
	Domestic    string
	RateDB      string
	NBPURL      string
	MaxLookback int
	NBPRPS      float64
	LogLevel    string
}

// LoadConfig reads the configuration from the environment and the global flags.
//
// A .env file in the working directory is loaded first if it exists. Flags
// take precedence over the environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Domestic: getEnvDefault(EnvDomesticCurrency, "PLN"),
		RateDB:   getEnvDefault(EnvRateDB, "currencies.db"),
		NBPURL:   getEnvDefault(EnvNBPURL, nbp.DefaultBaseURL),
		LogLevel: getEnvDefault(EnvLogLevel, "info"),
	}
	var err error
	if cfg.MaxLookback, err = strconv.Atoi(getEnvDefault(EnvMaxLookback, strconv.Itoa(ibkrtax.DefaultMaxLookback))); err != nil {
		return nil, fmt.Errorf("%s must be an integer: %w", EnvMaxLookback, err)
	}
	if cfg.NBPRPS, err = strconv.ParseFloat(getEnvDefault(EnvNBPRPS, "5"), 64); err != nil {
		return nil, fmt.Errorf("%s must be a number: %w", EnvNBPRPS, err)
	}

	if *domesticFlag != "" {
		cfg.Domestic = *domesticFlag
	}
	if *rateDBFlag != "" {
		cfg.RateDB = *rateDBFlag
	}
	if *nbpURLFlag != "" {
		cfg.NBPURL = *nbpURLFlag
	}
	if *maxLookbackFlag != 0 {
		cfg.MaxLookback = *maxLookbackFlag
	}
	if *nbpRPSFlag != 0 {
		cfg.NBPRPS = *nbpRPSFlag
	}
	if *logLevelFlag != "" {
		cfg.LogLevel = *logLevelFlag
	}

	cfg.Domestic = strings.ToUpper(cfg.Domestic)
	if err := ibkrtax.ValidateCurrency(cfg.Domestic); err != nil {
		return nil, err
	}
	if cfg.Domestic != nbp.Quote {
		return nil, fmt.Errorf("unsupported reporting currency %s: NBP rates are quoted in %s", cfg.Domestic, nbp.Quote)
	}
	if cfg.MaxLookback < 1 {
		return nil, fmt.Errorf("max lookback must be positive, got %d", cfg.MaxLookback)
	}
	return cfg, nil
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// initLogger installs the default slog logger, writing to stderr.
func initLogger(logLevelStr, format string) {
	var level slog.Level
	switch strings.ToLower(logLevelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		slog.Warn("invalid log level, defaulting to info", "configuredLevel", logLevelStr)
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
