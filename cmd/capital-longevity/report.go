package main

import (
	"fmt"
	"os"

	"github.com/iwvelando/capital-longevity/internal/dashboard"
	"github.com/iwvelando/capital-longevity/pkg/longevity"
	"github.com/iwvelando/capital-longevity/pkg/output"
	"github.com/iwvelando/capital-longevity/pkg/sweep"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newReportCmd(root *rootOptions) *cobra.Command {
	var (
		flags   inputFlags
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF report of the longevity and both sweeps",
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
			capitalSeries, withdrawalSeries := dashboard.Sweeps(conf, in)

			file, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create report %s: %w", outPath, err)
			}

			err = output.WritePDFReport(file, output.Report{
				Capital:     in.Capital,
				Withdrawal:  in.Withdrawal,
				RatePercent: in.RatePercent,
				Result:      longevity.ComputeYears(in.Capital, in.Withdrawal, in.Rate()),
				Series:      []sweep.Series{capitalSeries, withdrawalSeries},
			})
			if closeErr := file.Close(); err == nil && closeErr != nil {
				err = fmt.Errorf("failed to close report %s: %w", outPath, closeErr)
			}
			if err != nil {
				return err
			}

			logger.Info("report written",
				zap.String("op", "main.report"),
				zap.String("path", outPath),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outPath)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "capital-longevity-report.pdf", "path of the PDF file to write")
	return cmd
}
