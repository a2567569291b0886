// Package simulation advances a depleting-balance annuity month by month
// under compounding interest and an annually increasing withdrawal.
package simulation

import (
	"errors"
	"math"

	"github.com/openfincalc/drawdown-forecast/pkg/constants"
)

// ErrCalculationTooLong indicates an open-ended simulation ran past the
// thousand-year ceiling without exhausting the balance.
var ErrCalculationTooLong = errors.New("calculation exceeds the maximum supported horizon")

// ErrDiverged indicates a term-targeted simulation ran past twice the target
// term. The solver treats this as a far-from-converged trial, not a failure.
var ErrDiverged = errors.New("simulation diverged from the target term")

// Input holds the parameters for one simulation run. TermYears is nil for an
// open-ended run; all other fields must be populated by the caller.
type Input struct {
	Principal                 float64
	TermYears                 *float64
	AnnualRatePercent         float64
	CompoundingPeriodsPerYear int
	MonthlyWithdrawal         float64
	AnnualIncreasePercent     float64
}

// PeriodRecord holds the values for a single monthly period.
type PeriodRecord struct {
	StartBalance    float64
	EndBalance      float64
	InterestPayment float64
	Withdrawal      float64
}

// Trace is the full period-by-period history of a simulation run.
type Trace struct {
	Periods                  []PeriodRecord
	ActualTermYears          float64
	FinalScheduledWithdrawal float64
}

// Summary is the terminal state of a run, used inside the solver's hot loop
// where per-period records would be wasted allocation.
type Summary struct {
	Periods                  int
	ActualTermYears          float64
	FinalScheduledWithdrawal float64
	FinalAppliedWithdrawal   float64
	Diverged                 bool
}

// EffectiveMonthlyRate converts a nominal annual rate with an arbitrary
// compounding frequency into the growth rate for one monthly period.
func EffectiveMonthlyRate(annualRatePercent float64, periodsPerYear int) float64 {
	if periodsPerYear <= 0 {
		periodsPerYear = constants.DefaultCompoundingPeriods
	}
	periodic := math.Pow(1+annualRatePercent/constants.PercentageMultiplier, 1/float64(periodsPerYear)) - 1
	return math.Pow(1+periodic, float64(periodsPerYear)/constants.MonthsPerYear) - 1
}

// maxPeriods returns the hard period ceiling and whether exceeding it means
// divergence (term-targeted) rather than a fatal overrun (open-ended).
func maxPeriods(in Input) (int, bool) {
	if in.TermYears != nil {
		return int(math.Round(*in.TermYears*constants.MonthsPerYear)) * constants.TermOverrunFactor, true
	}
	return constants.MaxOpenEndedYears * constants.MonthsPerYear, false
}

// SimulateSummary runs the simulation keeping only the terminal state. A
// term-targeted run that exceeds twice its target reports Diverged in the
// summary with the term truncated at the ceiling; only the open-ended ceiling
// surfaces as an error.
func SimulateSummary(in Input) (Summary, error) {
	ceiling, divergeAtCeiling := maxPeriods(in)
	rate := EffectiveMonthlyRate(in.AnnualRatePercent, in.CompoundingPeriodsPerYear)

	balance := in.Principal
	scheduled := in.MonthlyWithdrawal
	applied := 0.0
	period := 0

	for balance >= constants.CurrencyTolerance {
		if period >= ceiling {
			if divergeAtCeiling {
				return Summary{
					Periods:                  period,
					ActualTermYears:          float64(period) / constants.MonthsPerYear,
					FinalScheduledWithdrawal: scheduled,
					FinalAppliedWithdrawal:   applied,
					Diverged:                 true,
				}, nil
			}
			return Summary{}, ErrCalculationTooLong
		}
		if period > 0 && period%constants.MonthsPerYear == 0 {
			scheduled *= 1 + in.AnnualIncreasePercent/constants.PercentageMultiplier
		}
		balance += balance * rate
		applied = math.Min(balance, scheduled)
		balance -= applied
		period++
	}

	return Summary{
		Periods:                  period,
		ActualTermYears:          float64(period) / constants.MonthsPerYear,
		FinalScheduledWithdrawal: scheduled,
		FinalAppliedWithdrawal:   applied,
	}, nil
}

// Simulate runs the simulation keeping every period for display and annual
// aggregation. Exceeding the ceiling is an error in both modes here; a
// term-targeted overrun yields ErrDiverged.
func Simulate(in Input) (*Trace, error) {
	ceiling, divergeAtCeiling := maxPeriods(in)
	rate := EffectiveMonthlyRate(in.AnnualRatePercent, in.CompoundingPeriodsPerYear)

	trace := &Trace{}
	balance := in.Principal
	scheduled := in.MonthlyWithdrawal
	period := 0

	for balance >= constants.CurrencyTolerance {
		if period >= ceiling {
			if divergeAtCeiling {
				return nil, ErrDiverged
			}
			return nil, ErrCalculationTooLong
		}
		if period > 0 && period%constants.MonthsPerYear == 0 {
			scheduled *= 1 + in.AnnualIncreasePercent/constants.PercentageMultiplier
		}
		record := PeriodRecord{StartBalance: balance}
		record.InterestPayment = balance * rate
		balance += record.InterestPayment
		record.Withdrawal = math.Min(balance, scheduled)
		balance -= record.Withdrawal
		record.EndBalance = balance
		trace.Periods = append(trace.Periods, record)
		period++
	}

	trace.ActualTermYears = float64(period) / constants.MonthsPerYear
	trace.FinalScheduledWithdrawal = scheduled
	return trace, nil
}

// TotalInterest sums the interest payments over the trace.
func (t *Trace) TotalInterest() float64 {
	total := 0.0
	for _, p := range t.Periods {
		total += p.InterestPayment
	}
	return total
}

// TotalWithdrawn sums the withdrawals over the trace.
func (t *Trace) TotalWithdrawn() float64 {
	total := 0.0
	for _, p := range t.Periods {
		total += p.Withdrawal
	}
	return total
}
