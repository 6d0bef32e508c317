package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/cwbudde/algo-emg/emg"
	"github.com/cwbudde/algo-emg/outlier"
)

var errOutliersArgs = errors.New("expected exactly one argument: folder path")

func outliersCommand() *cli.Command {
	return &cli.Command{
		Name:      "outliers",
		Usage:     "Flag recordings whose spectrum deviates from the usual inverse envelope",
		ArgsUsage: "<folder>",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:    "threshold",
				Aliases: []string{"t"},
				Usage:   "Deviation multiple above which a peak flags the file",
				Value:   5,
			},
			&cli.StringFlag{
				Name:  "metric",
				Usage: "Deviation statistic: median, mean",
				Value: "median",
			},
			&cli.IntFlag{
				Name:  "window",
				Usage: "Local-maximum comparison half-width in bins",
				Value: 1,
			},
			&cli.FloatFlag{
				Name:  "low",
				Usage: "Lower band edge in Hz",
			},
			&cli.FloatFlag{
				Name:  "high",
				Usage: "Upper band edge in Hz (default: Nyquist)",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Sampling rate in Hz (default: infer from each file's time column)",
			},
			&cli.StringFlag{
				Name:  "time-column",
				Usage: "Name of the time column",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errOutliersArgs, cmd.NArg())
			}

			det, err := outlier.New(outlier.Config{
				Threshold:  cmd.Float("threshold"),
				Metric:     outlier.Metric(cmd.String("metric")),
				WindowSize: cmd.Int("window"),
				Low:        cmd.Float("low"),
				High:       cmd.Float("high"),
			})
			if err != nil {
				return err
			}

			var opts []emg.ReadOption
			if rate := cmd.Float("rate"); rate != 0 {
				opts = append(opts, emg.WithRate(rate))
			}
			if col := cmd.String("time-column"); col != "" {
				opts = append(opts, emg.WithTimeColumn(col))
			}

			rep, err := det.DetectDir(cmd.Args().First(), opts...)
			if err != nil {
				return err
			}

			printReport(rep)

			return nil
		},
	}
}

// printReport writes flagged paths to stdout, one per line, and keeps the
// diagnostics on stderr.
func printReport(rep outlier.Report) {
	flagged := make([]string, 0, len(rep.Flagged))
	for id := range rep.Flagged {
		flagged = append(flagged, id)
	}
	slices.Sort(flagged)

	for _, id := range flagged {
		fmt.Println(rep.Flagged[id])
	}

	failed := make([]string, 0, len(rep.Errors))
	for id := range rep.Errors {
		failed = append(failed, id)
	}
	slices.Sort(failed)

	for _, id := range failed {
		fmt.Fprintf(os.Stderr, "warning: %s: %v\n", id, rep.Errors[id])
	}

	fmt.Fprintf(os.Stderr, "Scanned %d files, flagged %d (%d errors)\n",
		rep.Scanned, len(rep.Flagged), len(rep.Errors))
}
