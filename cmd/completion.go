package cmd

import (
	"github.com/etnz/harvest/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion tree of the tlh command.
func Completion() *complete.Command {
	topics, _ := docs.GetAllTopics()

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"snapshot":      predict.Files("*.jsonl"),
			"config":        predict.Files("*.yaml"),
			"as-of":         predict.Nothing,
			"ack":           predict.Nothing,
			"v":             predict.Nothing,
			"universe":      predict.Files("*.json"),
			"universe-path": predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"health": {Flags: map[string]complete.Predictor{"json": predict.Nothing}},
			"harvest": {Flags: map[string]complete.Predictor{
				"csv":       predict.Files("*.csv"),
				"narrative": predict.Nothing,
				"json":      predict.Nothing,
			}},
			"withdraw": {Flags: map[string]complete.Predictor{
				"amount":      predict.Nothing,
				"manual-cash": predict.Nothing,
				"exclude":     predict.Nothing,
				"csv":         predict.Files("*.csv"),
				"narrative":   predict.Nothing,
				"json":        predict.Nothing,
			}},
			"transition": {Flags: map[string]complete.Predictor{
				"allocation":  predict.Nothing,
				"manual-cash": predict.Nothing,
				"exclude":     predict.Nothing,
				"index":       predict.Nothing,
				"csv":         predict.Files("*.csv"),
				"buys":        predict.Files("*.csv"),
				"narrative":   predict.Nothing,
				"json":        predict.Nothing,
			}},
			"basket": {Flags: map[string]complete.Predictor{
				"csv":  predict.Files("*.csv"),
				"json": predict.Nothing,
			}},
			"drift":   {Flags: map[string]complete.Predictor{"json": predict.Nothing}},
			"replace": {Args: predict.Nothing},
			"topic":   {Args: predict.Set(topics), Flags: map[string]complete.Predictor{"list": predict.Nothing}},
			"explain": {Flags: map[string]complete.Predictor{"research": predict.Nothing}},
			"serve": {Flags: map[string]complete.Predictor{
				"addr":    predict.Nothing,
				"origins": predict.Nothing,
			}},
		},
	}
}
