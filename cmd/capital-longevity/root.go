package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/iwvelando/capital-longevity/internal/config"
	"github.com/iwvelando/capital-longevity/internal/dashboard"
	"github.com/iwvelando/capital-longevity/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "capital-longevity",
		Short:        "How many years a capital pool lasts under fixed withdrawals",
		Long:         "Compute, sweep and serve the number of years an initial capital lasts when a fixed amount is withdrawn every year and the balance earns a real rate of return.",
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to dashboard configuration file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(opts),
		newComputeCmd(opts),
		newSweepCmd(opts),
		newReportCmd(opts),
	)
	return cmd
}

// loadConfig reads the dashboard configuration. A missing configuration file
// falls back to the built-in defaults and is reported through missing.
func (o *rootOptions) loadConfig() (conf *config.Configuration, missing bool, err error) {
	conf, err = config.LoadConfiguration(o.configPath)
	if errors.Is(err, fs.ErrNotExist) {
		missing = true
		conf, err = config.LoadConfiguration("")
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load configuration at %s: %w", o.configPath, err)
	}
	return conf, missing, nil
}

// load reads the dashboard configuration and builds the logger from it.
func (o *rootOptions) load() (*config.Configuration, *zap.Logger, error) {
	conf, missing, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := initializeLogger(conf.Logging, o.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	o.logConfigNotes(logger, conf, missing)
	return conf, logger, nil
}

func (o *rootOptions) logConfigNotes(logger *zap.Logger, conf *config.Configuration, missing bool) {
	if missing {
		logger.Debug("configuration file not found, using defaults",
			zap.String("op", "main.load"),
			zap.String("path", o.configPath),
		)
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.load"),
		)
	}
}

// inputFlags binds the three input flags shared by compute, sweep and report.
type inputFlags struct {
	capital     float64
	withdrawal  float64
	ratePercent float64
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.capital, "capital", constants.DefaultCapital, "initial capital")
	cmd.Flags().Float64Var(&f.withdrawal, "withdrawal", constants.DefaultWithdrawal, "annual withdrawal")
	cmd.Flags().Float64Var(&f.ratePercent, "rate", constants.DefaultRatePercent, "real rate of return in percent")
}

// inputs returns the flag values, taking the configured default for every
// flag the user did not set.
func (f *inputFlags) inputs(cmd *cobra.Command, conf *config.Configuration) dashboard.Inputs {
	in := dashboard.DefaultInputs(conf)
	if cmd.Flags().Changed("capital") {
		in.Capital = f.capital
	}
	if cmd.Flags().Changed("withdrawal") {
		in.Withdrawal = f.withdrawal
	}
	if cmd.Flags().Changed("rate") {
		in.RatePercent = f.ratePercent
	}
	return in
}
