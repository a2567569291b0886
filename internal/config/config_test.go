package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openfincalc/drawdown-forecast/internal/policy"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	path := writeConfigFile(t, `
solveFor: withdrawal
scenario:
  principal: 1000000
  termYears: 20
  annualRatePercent: 8
  annualIncreasePercent: 5
logging:
  level: debug
  format: console
output:
  format: csv
`)

	configuration, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration returned error: %v", err)
	}

	if configuration.SolveFor != "withdrawal" {
		t.Errorf("SolveFor = %q, expected %q", configuration.SolveFor, "withdrawal")
	}
	if configuration.Scenario.Principal == nil || *configuration.Scenario.Principal != 1000000 {
		t.Errorf("Principal = %v, expected 1000000", configuration.Scenario.Principal)
	}
	if configuration.Scenario.TermYears == nil || *configuration.Scenario.TermYears != 20 {
		t.Errorf("TermYears = %v, expected 20", configuration.Scenario.TermYears)
	}
	if configuration.Scenario.AnnualRatePercent == nil || *configuration.Scenario.AnnualRatePercent != 8 {
		t.Errorf("AnnualRatePercent = %v, expected 8", configuration.Scenario.AnnualRatePercent)
	}
	if configuration.Scenario.MonthlyWithdrawal != nil {
		t.Errorf("MonthlyWithdrawal = %v, expected nil for the solved field", *configuration.Scenario.MonthlyWithdrawal)
	}
	if configuration.Scenario.AnnualIncreasePercent != 5 {
		t.Errorf("AnnualIncreasePercent = %v, expected 5", configuration.Scenario.AnnualIncreasePercent)
	}
	if configuration.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, expected %q", configuration.Logging.Level, "debug")
	}
	if configuration.Output.Format != "csv" {
		t.Errorf("Output.Format = %q, expected %q", configuration.Output.Format, "csv")
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	path := writeConfigFile(t, `
solveFor: term
scenario:
  principal: 500000
  annualRatePercent: 6
  monthlyWithdrawal: 3000
`)

	configuration, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration returned error: %v", err)
	}

	if configuration.Scenario.CompoundingPeriodsPerYear != 12 {
		t.Errorf("CompoundingPeriodsPerYear = %d, expected default 12",
			configuration.Scenario.CompoundingPeriodsPerYear)
	}
	if configuration.Display.CurrencySymbol != "$" {
		t.Errorf("CurrencySymbol = %q, expected default %q", configuration.Display.CurrencySymbol, "$")
	}
}

func TestLoadConfigurationExplicitValuesKeep(t *testing.T) {
	path := writeConfigFile(t, `
solveFor: rate
scenario:
  principal: 500000
  termYears: 15
  monthlyWithdrawal: 3000
  compoundingPeriodsPerYear: 4
display:
  currencySymbol: "£"
`)

	configuration, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration returned error: %v", err)
	}

	if configuration.Scenario.CompoundingPeriodsPerYear != 4 {
		t.Errorf("CompoundingPeriodsPerYear = %d, expected 4",
			configuration.Scenario.CompoundingPeriodsPerYear)
	}
	if configuration.Display.CurrencySymbol != "£" {
		t.Errorf("CurrencySymbol = %q, expected %q", configuration.Display.CurrencySymbol, "£")
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestSolveKind(t *testing.T) {
	configuration := Configuration{SolveFor: "principal"}
	kind, err := configuration.SolveKind()
	if err != nil {
		t.Fatalf("SolveKind returned error: %v", err)
	}
	if kind != policy.SolvePrincipal {
		t.Errorf("SolveKind = %v, expected SolvePrincipal", kind)
	}

	configuration.SolveFor = "winnings"
	if _, err := configuration.SolveKind(); err == nil {
		t.Error("SolveKind accepted an unknown target")
	}
}

func TestValidateConfiguration(t *testing.T) {
	principal := 1000000.0
	term := 20.0
	rate := 8.0

	configuration := Configuration{
		SolveFor: "withdrawal",
		Scenario: Scenario{
			Principal:                 &principal,
			TermYears:                 &term,
			AnnualRatePercent:         &rate,
			CompoundingPeriodsPerYear: 12,
		},
	}
	if issues := configuration.ValidateConfiguration(); len(issues) != 0 {
		t.Errorf("expected a clean validation, got %v", issues)
	}

	configuration.Scenario.TermYears = nil
	issues := configuration.ValidateConfiguration()
	if len(issues) == 0 {
		t.Fatal("expected a validation error for the missing term")
	}
	if issues[0].Field != "termYears" {
		t.Errorf("validation flagged %q, expected %q", issues[0].Field, "termYears")
	}
}

func TestScenarioPolicyInput(t *testing.T) {
	principal := 250000.0
	withdrawal := 1500.0

	scenario := Scenario{
		Principal:                 &principal,
		MonthlyWithdrawal:         &withdrawal,
		AnnualIncreasePercent:     3,
		CompoundingPeriodsPerYear: 12,
	}

	in := scenario.PolicyInput()
	if in.Principal != scenario.Principal {
		t.Error("PolicyInput did not carry the principal pointer through")
	}
	if in.MonthlyWithdrawal != scenario.MonthlyWithdrawal {
		t.Error("PolicyInput did not carry the withdrawal pointer through")
	}
	if in.TermYears != nil {
		t.Error("PolicyInput invented a term")
	}
	if in.AnnualIncreasePercent != 3 || in.CompoundingPeriodsPerYear != 12 {
		t.Errorf("PolicyInput = %+v, expected increase 3 and compounding 12", in)
	}
}
