package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/capital-longevity/pkg/constants"
	"github.com/iwvelando/capital-longevity/pkg/sweep"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Empty path uses defaults",
			configPath: "",
			wantError:  false,
		},
		{
			name:       "Test config",
			configPath: "../../test/test_config.yaml",
			wantError:  false,
		},
		{
			name:       "Example config",
			configPath: "../../config.yaml.example",
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationMissingFileIsNotExist(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	config, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if *config != *DefaultConfiguration() {
		t.Errorf("expected defaults, got %+v", config)
	}
	if config.Inputs.Capital.Default != 250000 {
		t.Errorf("expected default capital 250000, got %v", config.Inputs.Capital.Default)
	}
	if config.Inputs.Withdrawal.Default != 22000 {
		t.Errorf("expected default withdrawal 22000, got %v", config.Inputs.Withdrawal.Default)
	}
	if config.Inputs.Rate.Default != 5.0 || config.Inputs.Rate.Step != 0.1 {
		t.Errorf("unexpected rate input %+v", config.Inputs.Rate)
	}
	if got := config.Sweeps.Capital.Len(); got != 81 {
		t.Errorf("expected 81 capital sweep values, got %d", got)
	}
	if got := config.Sweeps.Withdrawal.Len(); got != 41 {
		t.Errorf("expected 41 withdrawal sweep values, got %d", got)
	}
	if config.Output.Format != constants.OutputFormatPretty {
		t.Errorf("expected pretty output, got %q", config.Output.Format)
	}
	if warnings := config.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no warnings for defaults, got %v", warnings)
	}
}

func TestLoadConfigurationOverrides(t *testing.T) {
	config, err := LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if config.Logging.Level != "debug" || config.Logging.Format != "console" {
		t.Errorf("unexpected logging config %+v", config.Logging)
	}
	if config.Output.Format != constants.OutputFormatCSV {
		t.Errorf("expected csv output, got %q", config.Output.Format)
	}
	if config.Inputs.Capital.Default != 400000 || config.Inputs.Capital.Step != 5000 {
		t.Errorf("unexpected capital input %+v", config.Inputs.Capital)
	}
	if config.Inputs.Rate.Default != 4.5 || config.Inputs.Rate.Step != 0.25 {
		t.Errorf("unexpected rate input %+v", config.Inputs.Rate)
	}
	expected := sweep.Range{Min: 5000, Max: 60000, Step: 1000}
	if config.Sweeps.Withdrawal != expected {
		t.Errorf("withdrawal sweep = %+v, expected %+v", config.Sweeps.Withdrawal, expected)
	}
}

func TestLoadConfigurationPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("sweeps:\n  capital:\n    step: 10000\n"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	config, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if config.Sweeps.Capital.Step != 10000 {
		t.Errorf("expected capital sweep step override, got %v", config.Sweeps.Capital.Step)
	}
	if config.Sweeps.Capital.Min != constants.DefaultCapitalMin {
		t.Errorf("expected default capital sweep min, got %v", config.Sweeps.Capital.Min)
	}
	if config.Inputs.Withdrawal.Default != constants.DefaultWithdrawal {
		t.Errorf("expected default withdrawal, got %v", config.Inputs.Withdrawal.Default)
	}
}

func TestLoadConfigurationEnvironmentOverride(t *testing.T) {
	t.Setenv("LONGEVITY_INPUTS_RATE_DEFAULT", "3.5")
	t.Setenv("LONGEVITY_SWEEPS_WITHDRAWAL_STEP", "250")

	config, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if config.Inputs.Rate.Default != 3.5 {
		t.Errorf("expected env rate default 3.5, got %v", config.Inputs.Rate.Default)
	}
	if config.Sweeps.Withdrawal.Step != 250 {
		t.Errorf("expected env withdrawal step 250, got %v", config.Sweeps.Withdrawal.Step)
	}
}

func TestLoadConfigurationInvalidRange(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		message string
	}{
		{
			name:    "zero sweep step",
			yaml:    "sweeps:\n  capital:\n    step: 0\n",
			message: "sweeps.capital",
		},
		{
			name:    "tiny sweep step",
			yaml:    "sweeps:\n  capital:\n    step: 1e-9\n",
			message: "sweeps.capital",
		},
		{
			name:    "inverted dropdown",
			yaml:    "inputs:\n  withdrawal:\n    min: 50000\n    max: 10000\n",
			message: "inputs.withdrawal",
		},
		{
			name:    "negative rate step",
			yaml:    "inputs:\n  rate:\n    step: -0.1\n",
			message: "inputs.rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigurationFromReader(strings.NewReader(tt.yaml))
			if err == nil {
				t.Fatal("expected validation error but got none")
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("expected error to mention %q, got %q", tt.message, err.Error())
			}
		})
	}
}

func TestLoadConfigurationFromReaderInvalidYAML(t *testing.T) {
	if _, err := LoadConfigurationFromReader(strings.NewReader("inputs: [")); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	config := DefaultConfiguration()
	config.Inputs.Capital.Default = 250500
	config.Inputs.Withdrawal.Min = 0
	config.Inputs.Withdrawal.Default = 0
	config.Inputs.Rate.Default = 0

	warnings := config.ValidateConfiguration()

	expected := []string{
		"Default capital",
		"Withdrawal ranges should start above zero",
		"Default rate of return is zero",
	}
	if len(warnings) != len(expected) {
		t.Fatalf("expected %d warnings, got %v", len(expected), warnings)
	}
	for i, want := range expected {
		if !strings.Contains(warnings[i], want) {
			t.Errorf("warning %d = %q, expected to contain %q", i, warnings[i], want)
		}
	}
}
