package main

import (
	"fmt"

	"github.com/iwvelando/capital-longevity/pkg/constants"
	"github.com/iwvelando/capital-longevity/pkg/output"
	"github.com/iwvelando/capital-longevity/pkg/sweep"
	"github.com/iwvelando/capital-longevity/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSweepCmd(root *rootOptions) *cobra.Command {
	var (
		flags        inputFlags
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:       "sweep capital|withdrawal",
		Short:     "Tabulate the years capital lasts across a range of capitals or withdrawals",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(sweep.Capital), string(sweep.Withdrawal)},
		RunE: func(cmd *cobra.Command, args []string) error {
			variable, err := sweep.ParseVariable(args[0])
			if err != nil {
				return err
			}

			conf, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			// CLI override takes precedence over config
			format := conf.Output.Format
			if outputFormat != "" {
				format = outputFormat
			}
			if format == "" {
				format = constants.OutputFormatPretty
			}
			if err := validation.ValidateOutputFormat(format); err != nil {
				return err
			}

			in := flags.inputs(cmd, conf)
			r, fixed := conf.Sweeps.Capital, in.Withdrawal
			if variable == sweep.Withdrawal {
				r, fixed = conf.Sweeps.Withdrawal, in.Capital
			}

			series, err := sweep.Run(variable, r, fixed, in.Rate())
			if err != nil {
				return err
			}
			logger.Debug("sweep computed",
				zap.String("op", "main.sweep"),
				zap.String("variable", string(variable)),
				zap.Int("points", len(series.Points)),
			)

			out := cmd.OutOrStdout()
			switch format {
			case constants.OutputFormatPretty:
				return output.PrettyFormat(out, series)
			case constants.OutputFormatCSV:
				return output.CsvFormat(out, series)
			case constants.OutputFormatJSON:
				return output.JSONFormat(out, series)
			}
			return fmt.Errorf("unhandled output format %q", format)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv, json")
	return cmd
}
