package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/capital-longevity/pkg/format"
	"github.com/iwvelando/capital-longevity/pkg/longevity"
	"github.com/iwvelando/capital-longevity/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newComputeCmd(root *rootOptions) *cobra.Command {
	var (
		flags    inputFlags
		previous string
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Print the years capital lasts for one set of inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			in := flags.inputs(cmd, conf)
			for _, warning := range validation.InputWarnings(in.Capital, in.Withdrawal, in.RatePercent) {
				logger.Warn("Input warning: "+warning, zap.String("op", "main.compute"))
			}

			var prev *longevity.Result
			if cmd.Flags().Changed("previous") {
				parsed, err := parsePrevious(previous)
				if err != nil {
					return err
				}
				prev = &parsed
			}

			result := longevity.ComputeYears(in.Capital, in.Withdrawal, in.Rate())
			logger.Debug("computed longevity",
				zap.String("op", "main.compute"),
				zap.Float64("capital", in.Capital),
				zap.Float64("withdrawal", in.Withdrawal),
				zap.Float64("ratePercent", in.RatePercent),
				zap.String("state", result.State.String()),
			)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Years capital lasts: %s\n", format.Years(result))
			fmt.Fprintf(out, "Change: %s\n", format.Delta(prev, result))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&previous, "previous", "", "previous result in years (a number, inf or nan) to compare against")
	return cmd
}

// parsePrevious accepts the same spellings the dashboard displays.
func parsePrevious(value string) (longevity.Result, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "∞" {
		return longevity.InfiniteYears(), nil
	}
	years, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return longevity.Result{}, fmt.Errorf("invalid previous result %q: %w", value, err)
	}
	return longevity.FromFloat64(years), nil
}
