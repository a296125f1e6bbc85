// Package config defines the data structures related to configuration and
// includes functions for loading and validating the dashboard configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iwvelando/capital-longevity/pkg/constants"
	"github.com/iwvelando/capital-longevity/pkg/sweep"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for the capital longevity dashboard.
type Configuration struct {
	Inputs  InputsConfig  `mapstructure:"inputs" yaml:"inputs"`
	Sweeps  SweepsConfig  `mapstructure:"sweeps" yaml:"sweeps"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging,omitempty"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, json
}

// InputsConfig describes the three input controls of the dashboard.
type InputsConfig struct {
	Capital    ChoiceConfig `mapstructure:"capital" yaml:"capital"`
	Withdrawal ChoiceConfig `mapstructure:"withdrawal" yaml:"withdrawal"`
	Rate       RateConfig   `mapstructure:"rate" yaml:"rate"`
}

// ChoiceConfig is a dropdown whose options are the values of a range.
type ChoiceConfig struct {
	Min     float64 `mapstructure:"min" yaml:"min"`
	Max     float64 `mapstructure:"max" yaml:"max"`
	Step    float64 `mapstructure:"step" yaml:"step"`
	Default float64 `mapstructure:"default" yaml:"default"`
}

// Range returns the dropdown's options as a sweep range.
func (c ChoiceConfig) Range() sweep.Range {
	return sweep.Range{Min: c.Min, Max: c.Max, Step: c.Step}
}

// RateConfig describes the free-entry rate of return input, in percent.
type RateConfig struct {
	Default float64 `mapstructure:"default" yaml:"default"`
	Step    float64 `mapstructure:"step" yaml:"step"`
}

// SweepsConfig holds the ranges plotted by the two charts.
type SweepsConfig struct {
	Capital    sweep.Range `mapstructure:"capital" yaml:"capital"`
	Withdrawal sweep.Range `mapstructure:"withdrawal" yaml:"withdrawal"`
}

// DefaultConfiguration returns the configuration used when no file is given.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Inputs: InputsConfig{
			Capital: ChoiceConfig{
				Min:     constants.DefaultCapitalMin,
				Max:     constants.DefaultCapitalMax,
				Step:    constants.DefaultCapitalStep,
				Default: constants.DefaultCapital,
			},
			Withdrawal: ChoiceConfig{
				Min:     constants.DefaultWithdrawalMin,
				Max:     constants.DefaultWithdrawalMax,
				Step:    constants.DefaultWithdrawalStep,
				Default: constants.DefaultWithdrawal,
			},
			Rate: RateConfig{
				Default: constants.DefaultRatePercent,
				Step:    constants.DefaultRateStep,
			},
		},
		Sweeps: SweepsConfig{
			Capital: sweep.Range{
				Min:  constants.DefaultCapitalMin,
				Max:  constants.DefaultCapitalMax,
				Step: constants.DefaultCapitalSweepStep,
			},
			Withdrawal: sweep.Range{
				Min:  constants.DefaultWithdrawalMin,
				Max:  constants.DefaultWithdrawalMax,
				Step: constants.DefaultWithdrawalSweepStep,
			},
		},
		Output: OutputConfig{Format: constants.OutputFormatPretty},
	}
}

// newViper returns a viper instance seeded with the defaults and the
// LONGEVITY_ environment overrides (e.g. LONGEVITY_SWEEPS_CAPITAL_STEP).
func newViper() *viper.Viper {
	v := viper.New()
	d := DefaultConfiguration()

	v.SetDefault("inputs.capital.min", d.Inputs.Capital.Min)
	v.SetDefault("inputs.capital.max", d.Inputs.Capital.Max)
	v.SetDefault("inputs.capital.step", d.Inputs.Capital.Step)
	v.SetDefault("inputs.capital.default", d.Inputs.Capital.Default)
	v.SetDefault("inputs.withdrawal.min", d.Inputs.Withdrawal.Min)
	v.SetDefault("inputs.withdrawal.max", d.Inputs.Withdrawal.Max)
	v.SetDefault("inputs.withdrawal.step", d.Inputs.Withdrawal.Step)
	v.SetDefault("inputs.withdrawal.default", d.Inputs.Withdrawal.Default)
	v.SetDefault("inputs.rate.default", d.Inputs.Rate.Default)
	v.SetDefault("inputs.rate.step", d.Inputs.Rate.Step)
	v.SetDefault("sweeps.capital.min", d.Sweeps.Capital.Min)
	v.SetDefault("sweeps.capital.max", d.Sweeps.Capital.Max)
	v.SetDefault("sweeps.capital.step", d.Sweeps.Capital.Step)
	v.SetDefault("sweeps.withdrawal.min", d.Sweeps.Withdrawal.Min)
	v.SetDefault("sweeps.withdrawal.max", d.Sweeps.Withdrawal.Max)
	v.SetDefault("sweeps.withdrawal.step", d.Sweeps.Withdrawal.Step)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", d.Output.Format)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yml")
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. An empty path yields the defaults.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Validate returns an error when a range cannot be enumerated.
func (c *Configuration) Validate() error {
	ranges := []struct {
		name string
		r    sweep.Range
	}{
		{"inputs.capital", c.Inputs.Capital.Range()},
		{"inputs.withdrawal", c.Inputs.Withdrawal.Range()},
		{"sweeps.capital", c.Sweeps.Capital},
		{"sweeps.withdrawal", c.Sweeps.Withdrawal},
	}
	for _, entry := range ranges {
		if err := entry.r.Validate(); err != nil {
			return fmt.Errorf("invalid %s: %w", entry.name, err)
		}
	}
	if c.Inputs.Rate.Step <= 0 {
		return fmt.Errorf("invalid inputs.rate: step must be greater than zero, got %v", c.Inputs.Rate.Step)
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if !c.Inputs.Capital.Range().Contains(c.Inputs.Capital.Default) {
		warnings = append(warnings, fmt.Sprintf("Default capital %.2f is not one of the capital options", c.Inputs.Capital.Default))
	}
	if !c.Inputs.Withdrawal.Range().Contains(c.Inputs.Withdrawal.Default) {
		warnings = append(warnings, fmt.Sprintf("Default withdrawal %.2f is not one of the withdrawal options", c.Inputs.Withdrawal.Default))
	}
	if c.Inputs.Capital.Min <= 0 || c.Sweeps.Capital.Min <= 0 {
		warnings = append(warnings, "Capital ranges should start above zero")
	}
	if c.Inputs.Withdrawal.Min <= 0 || c.Sweeps.Withdrawal.Min <= 0 {
		warnings = append(warnings, "Withdrawal ranges should start above zero - a zero withdrawal has no defined longevity")
	}
	if c.Inputs.Rate.Default == 0 {
		warnings = append(warnings, "Default rate of return is zero - the formula is undefined at a zero rate")
	}

	return warnings
}
