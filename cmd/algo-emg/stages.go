package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/cwbudde/algo-emg/filter"
)

func stagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "stages",
		Usage: "List the filter stage types available in pipeline configurations",
		Action: func(_ context.Context, _ *cli.Command) error {
			for _, name := range filter.DefaultRegistry().Types() {
				fmt.Println(name)
			}

			return nil
		},
	}
}
