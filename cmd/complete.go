package cmd

import (
	"github.com/etnz/ibkrtax/docs"
	"github.com/etnz/ibkrtax/nbp"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	statements := predict.Files("*.csv")
	topics, _ := docs.GetAllTopics()

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"currency":     predict.Set{nbp.Quote},
			"db":           predict.Files("*.db"),
			"nbp-url":      predict.Something,
			"max-lookback": predict.Something,
			"nbp-rps":      predict.Something,
			"log-level":    predict.Set{"debug", "info", "warn", "error"},
			"log-format":   predict.Set{"text", "json"},
			"raw":          predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"gains": {
				Flags: map[string]complete.Predictor{
					"year":      predict.Something,
					"details":   predict.Nothing,
					"positions": predict.Nothing,
					"json":      predict.Nothing,
				},
				Args: statements,
			},
			"trades": {
				Flags: map[string]complete.Predictor{
					"symbol": predict.Something,
					"json":   predict.Nothing,
				},
				Args: statements,
			},
			"rate": {
				Args: predict.Something,
			},
			"topic": {
				Args: predict.Set(topics),
			},
			"help":  {},
			"flags": {},
		},
	}
}
