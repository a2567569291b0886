// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"

	"github.com/openfincalc/drawdown-forecast/internal/policy"
	"github.com/openfincalc/drawdown-forecast/pkg/constants"
	"github.com/openfincalc/drawdown-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for drawdown-forecast.
type Configuration struct {
	Scenario Scenario
	SolveFor string        `yaml:"solveFor"`
	Logging  LoggingConfig `yaml:"logging,omitempty"`
	Output   OutputConfig  `yaml:"output,omitempty"`
	Display  DisplayConfig `yaml:"display,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// DisplayConfig holds presentation-only options; nothing here reaches the
// computation core.
type DisplayConfig struct {
	CurrencySymbol string `yaml:"currencySymbol,omitempty"`
}

// Scenario holds the annuity parameters. The field named by SolveFor may be
// omitted; every other parameter must be present.
type Scenario struct {
	Principal                 *float64 `yaml:"principal,omitempty"`
	TermYears                 *float64 `yaml:"termYears,omitempty"`
	AnnualRatePercent         *float64 `yaml:"annualRatePercent,omitempty"`
	MonthlyWithdrawal         *float64 `yaml:"monthlyWithdrawal,omitempty"`
	AnnualIncreasePercent     float64  `yaml:"annualIncreasePercent,omitempty"`
	CompoundingPeriodsPerYear int      `yaml:"compoundingPeriodsPerYear,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()
	return &configuration, nil
}

func (c *Configuration) applyDefaults() {
	if c.Scenario.CompoundingPeriodsPerYear == 0 {
		c.Scenario.CompoundingPeriodsPerYear = constants.DefaultCompoundingPeriods
	}
	if c.Display.CurrencySymbol == "" {
		c.Display.CurrencySymbol = constants.DefaultCurrencySymbol
	}
}

// SolveKind parses the SolveFor field into a policy kind.
func (c *Configuration) SolveKind() (policy.Kind, error) {
	return policy.ParseKind(c.SolveFor)
}

// ValidateConfiguration runs the pure field validation over the scenario and
// returns any field errors for the presentation layer to render.
func (c *Configuration) ValidateConfiguration() []validation.FieldError {
	return validation.ValidateScenario(validation.ScenarioInput{
		SolveFor:                  c.SolveFor,
		Principal:                 c.Scenario.Principal,
		TermYears:                 c.Scenario.TermYears,
		AnnualRatePercent:         c.Scenario.AnnualRatePercent,
		MonthlyWithdrawal:         c.Scenario.MonthlyWithdrawal,
		AnnualIncreasePercent:     c.Scenario.AnnualIncreasePercent,
		CompoundingPeriodsPerYear: c.Scenario.CompoundingPeriodsPerYear,
	})
}

// PolicyInput converts the scenario into the input shape the policy layer
// consumes.
func (s Scenario) PolicyInput() policy.Input {
	return policy.Input{
		Principal:                 s.Principal,
		TermYears:                 s.TermYears,
		AnnualRatePercent:         s.AnnualRatePercent,
		MonthlyWithdrawal:         s.MonthlyWithdrawal,
		AnnualIncreasePercent:     s.AnnualIncreasePercent,
		CompoundingPeriodsPerYear: s.CompoundingPeriodsPerYear,
	}
}
