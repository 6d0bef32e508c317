// Command algo-emg conditions surface EMG recordings and extracts scalar
// features from them.
//
// Usage:
//
//	algo-emg run [flags] [folder]
//	algo-emg outliers [flags] <folder>
//	algo-emg stages
//
// Examples:
//
//	algo-emg run --rate 2000 --cleaned cleaned/ recordings/
//	algo-emg run --config pipeline.yaml
//	algo-emg outliers --threshold 5 recordings/
//	algo-emg stages
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

const version = "0.1.0"

func main() {
	ctx := context.Background()

	appl := &cli.Command{
		Name:    "algo-emg",
		Usage:   "Surface EMG conditioning and feature extraction",
		Version: version,
		Commands: []*cli.Command{
			runCommand(),
			outliersCommand(),
			stagesCommand(),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}
