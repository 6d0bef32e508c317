package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/cwbudde/algo-emg/batch"
)

var errNoInputDir = errors.New("expected a recordings folder: pass one argument or set input_dir in the config")

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Condition every recording in a folder and write one feature table",
		ArgsUsage: "[folder]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML pipeline configuration",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Feature table destination",
				Value:   "features.csv",
			},
			&cli.StringFlag{
				Name:  "cleaned",
				Usage: "Folder for conditioned copies of each recording",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Sampling rate in Hz (default: infer from each file's time column)",
			},
			&cli.StringFlag{
				Name:  "time-column",
				Usage: "Name of the time column",
			},
			&cli.StringFlag{
				Name:  "channels",
				Usage: "Comma-separated channel names (default: all columns)",
			},
			&cli.FloatFlag{
				Name:  "min-segment",
				Usage: "Shortest usable segment in seconds",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "Number of concurrent workers",
				Value:   runtime.NumCPU(),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}

			return runBatch(ctx, cfg)
		},
	}
}

func runBatch(ctx context.Context, cfg batch.Config) error {
	runner, err := batch.NewRunner(cfg)
	if err != nil {
		return err
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Done: %d files (%d failed)\n",
		summary.Processed+summary.Failed, summary.Failed)

	if cfg.OutputFile != "" && summary.Processed > 0 {
		fmt.Fprintf(os.Stderr, "Features written to %s\n", cfg.OutputFile)
	}

	return nil
}

// buildConfig loads the YAML configuration when given and lets explicit
// flags override individual fields. Flag defaults only fill in when no
// configuration file was loaded, so a config that skips the feature table
// by leaving output_file empty stays untouched.
func buildConfig(cmd *cli.Command) (batch.Config, error) {
	var cfg batch.Config

	fromFile := false

	if path := cmd.String("config"); path != "" {
		var err error

		cfg, err = batch.LoadConfig(path)
		if err != nil {
			return batch.Config{}, err
		}

		fromFile = true
	}

	if cmd.NArg() > 1 {
		return batch.Config{}, fmt.Errorf("expected at most one folder argument, got %d", cmd.NArg())
	}

	if cmd.NArg() == 1 {
		cfg.InputDir = cmd.Args().First()
	}

	if cfg.InputDir == "" {
		return batch.Config{}, errNoInputDir
	}

	if cmd.IsSet("output") || !fromFile {
		cfg.OutputFile = cmd.String("output")
	}

	if cmd.IsSet("cleaned") {
		cfg.CleanedDir = cmd.String("cleaned")
	}

	if cmd.IsSet("rate") {
		cfg.SampleRate = cmd.Float("rate")
	}

	if cmd.IsSet("time-column") {
		cfg.TimeColumn = cmd.String("time-column")
	}

	if cmd.IsSet("channels") {
		cfg.Channels = splitChannels(cmd.String("channels"))
	}

	if cmd.IsSet("min-segment") {
		cfg.MinSegment = cmd.Float("min-segment")
	}

	if cmd.IsSet("workers") || !fromFile {
		cfg.Workers = cmd.Int("workers")
	}

	return cfg, nil
}

func splitChannels(list string) []string {
	var out []string

	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}

	return out
}
