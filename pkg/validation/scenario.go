// Package validation provides pure input validation producing typed field
// errors; it holds no state and performs no I/O.
package validation

import (
	"fmt"
	"math"

	"github.com/openfincalc/drawdown-forecast/pkg/constants"
)

// FieldError identifies one invalid or missing input field. The message is
// plain data for the presentation layer; no formatting decisions are made
// here.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ScenarioInput mirrors the configurable annuity parameters for validation
// without coupling this package to the configuration loader.
type ScenarioInput struct {
	SolveFor                  string
	Principal                 *float64
	TermYears                 *float64
	AnnualRatePercent         *float64
	MonthlyWithdrawal         *float64
	AnnualIncreasePercent     float64
	CompoundingPeriodsPerYear int
}

var solveTargets = map[string]string{
	"withdrawal": "monthlyWithdrawal",
	"principal":  "principal",
	"rate":       "annualRatePercent",
	"term":       "termYears",
}

// ValidateScenario checks presence, finiteness, and sign of every field the
// selected solve target requires. An empty slice means the scenario is ready
// for the computation core.
func ValidateScenario(in ScenarioInput) []FieldError {
	var errs []FieldError

	solvedField, ok := solveTargets[in.SolveFor]
	if !ok {
		errs = append(errs, FieldError{Field: "solveFor",
			Message: fmt.Sprintf("must be one of withdrawal, principal, rate, term; got %q", in.SolveFor)})
		solvedField = ""
	}

	check := func(field string, value *float64, allowZero bool) {
		if field == solvedField {
			return
		}
		if value == nil {
			errs = append(errs, FieldError{Field: field, Message: "is required"})
			return
		}
		if math.IsNaN(*value) || math.IsInf(*value, 0) {
			errs = append(errs, FieldError{Field: field, Message: "must be a finite number"})
			return
		}
		if *value < 0 || (!allowZero && *value == 0) {
			if allowZero {
				errs = append(errs, FieldError{Field: field, Message: "must not be negative"})
			} else {
				errs = append(errs, FieldError{Field: field, Message: "must be greater than zero"})
			}
		}
	}

	check("principal", in.Principal, true)
	check("termYears", in.TermYears, false)
	check("annualRatePercent", in.AnnualRatePercent, true)
	check("monthlyWithdrawal", in.MonthlyWithdrawal, true)

	if math.IsNaN(in.AnnualIncreasePercent) || math.IsInf(in.AnnualIncreasePercent, 0) {
		errs = append(errs, FieldError{Field: "annualIncreasePercent", Message: "must be a finite number"})
	} else if in.AnnualIncreasePercent < 0 {
		errs = append(errs, FieldError{Field: "annualIncreasePercent", Message: "must not be negative"})
	}

	if in.CompoundingPeriodsPerYear < 0 {
		errs = append(errs, FieldError{Field: "compoundingPeriodsPerYear", Message: "must be at least 1"})
	}

	return errs
}

// ValidateOutputFormat checks that the requested output format is supported.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV:
		return nil
	default:
		return fmt.Errorf("invalid output format %q: must be %s or %s",
			format, constants.OutputFormatPretty, constants.OutputFormatCSV)
	}
}
