// Package policy solves a drawdown scenario for whichever parameter the
// caller left unknown and produces the displayable trajectory for the
// resolved parameter set.
package policy

import (
	"fmt"
	"math"

	"github.com/openfincalc/drawdown-forecast/internal/simulation"
	"github.com/openfincalc/drawdown-forecast/internal/solver"
	"github.com/openfincalc/drawdown-forecast/pkg/constants"
	"go.uber.org/zap"
)

// Kind selects which parameter of the scenario is solved for.
type Kind int

const (
	SolveWithdrawal Kind = iota
	SolvePrincipal
	SolveRate
	SolveTerm
)

// String returns the configuration spelling of the kind.
func (k Kind) String() string {
	switch k {
	case SolveWithdrawal:
		return "withdrawal"
	case SolvePrincipal:
		return "principal"
	case SolveRate:
		return "rate"
	case SolveTerm:
		return "term"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ParseKind maps a configuration string onto a Kind.
func ParseKind(value string) (Kind, error) {
	switch value {
	case "withdrawal":
		return SolveWithdrawal, nil
	case "principal":
		return SolvePrincipal, nil
	case "rate":
		return SolveRate, nil
	case "term":
		return SolveTerm, nil
	default:
		return 0, fmt.Errorf("unsupported solve target %q", value)
	}
}

// MissingInputError reports a required field the caller failed to supply for
// the selected kind. It is a caller contract violation, not a solver outcome.
type MissingInputError struct {
	Field string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("required input %s is missing", e.Field)
}

// Input carries the scenario parameters. The field matching the solve kind
// may be nil; every other pointer field must be set.
type Input struct {
	Principal                 *float64
	TermYears                 *float64
	AnnualRatePercent         *float64
	MonthlyWithdrawal         *float64
	AnnualIncreasePercent     float64
	CompoundingPeriodsPerYear int
}

func (in Input) periodsPerYear() int {
	if in.CompoundingPeriodsPerYear <= 0 {
		return constants.DefaultCompoundingPeriods
	}
	return in.CompoundingPeriodsPerYear
}

func (in Input) require(kind Kind) error {
	type field struct {
		name  string
		value *float64
		kind  Kind
	}
	for _, f := range []field{
		{"principal", in.Principal, SolvePrincipal},
		{"termYears", in.TermYears, SolveTerm},
		{"annualRatePercent", in.AnnualRatePercent, SolveRate},
		{"monthlyWithdrawal", in.MonthlyWithdrawal, SolveWithdrawal},
	} {
		if f.kind == kind {
			continue
		}
		if f.value == nil {
			return &MissingInputError{Field: f.name}
		}
	}
	return nil
}

// Summary holds the headline figures computed from the resolved trajectory.
type Summary struct {
	TotalInterest       float64 `json:"totalInterest"`
	TotalWithdrawn      float64 `json:"totalWithdrawn"`
	InitialAnnualIncome float64 `json:"initialAnnualIncome"`
	DrawDownPercent     float64 `json:"drawDownPercent"`
	SolvedValue         float64 `json:"solvedValue"`
}

// Result is the full outcome of one solve: the resolved parameter set, its
// trace, the annual rollup, and the headline summary.
type Result struct {
	Kind     Kind
	Resolved simulation.Input
	Trace    *simulation.Trace
	Annual   []simulation.AnnualRecord
	Summary  Summary
}

// Solve resolves the unknown selected by kind and re-simulates the scenario
// in full to produce the displayable result.
func Solve(logger *zap.Logger, in Input, kind Kind) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := in.require(kind); err != nil {
		return nil, err
	}

	var (
		resolved simulation.Input
		solved   float64
		err      error
	)

	switch kind {
	case SolveWithdrawal:
		resolved, solved, err = solveWithdrawal(logger, in)
	case SolvePrincipal:
		resolved, solved, err = solvePrincipal(logger, in)
	case SolveRate:
		resolved, solved, err = solveRate(logger, in)
	case SolveTerm:
		resolved = simulation.Input{
			Principal:                 *in.Principal,
			AnnualRatePercent:         *in.AnnualRatePercent,
			CompoundingPeriodsPerYear: in.periodsPerYear(),
			MonthlyWithdrawal:         *in.MonthlyWithdrawal,
			AnnualIncreasePercent:     in.AnnualIncreasePercent,
		}
	default:
		return nil, fmt.Errorf("unsupported solve target %q", kind)
	}
	if err != nil {
		return nil, err
	}

	trace, err := simulation.Simulate(resolved)
	if err != nil {
		if err == simulation.ErrDiverged {
			// A resolved parameter set should reproduce its own target term;
			// if it cannot, the search result is not usable.
			return nil, solver.ErrSearchFailed
		}
		return nil, err
	}

	if kind == SolveTerm {
		solved = trace.ActualTermYears
	}

	result := &Result{
		Kind:     kind,
		Resolved: resolved,
		Trace:    trace,
		Annual:   simulation.ToAnnual(trace),
	}
	result.Summary = summarize(resolved, trace, solved)

	logger.Info("solved drawdown scenario",
		zap.String("op", "policy.Solve"),
		zap.String("kind", kind.String()),
		zap.Float64("solvedValue", solved),
		zap.Float64("actualTermYears", trace.ActualTermYears),
		zap.Int("periods", len(trace.Periods)),
	)

	return result, nil
}

func summarize(resolved simulation.Input, trace *simulation.Trace, solved float64) Summary {
	months := math.Min(constants.MonthsPerYear, float64(len(trace.Periods)))
	income := resolved.MonthlyWithdrawal * months
	drawDown := 0.0
	if denominator := math.Max(resolved.Principal, income); denominator > 0 {
		drawDown = income / denominator * constants.PercentageMultiplier
	}
	return Summary{
		TotalInterest:       trace.TotalInterest(),
		TotalWithdrawn:      trace.TotalWithdrawn(),
		InitialAnnualIncome: income,
		DrawDownPercent:     drawDown,
		SolvedValue:         solved,
	}
}

// termObjective turns a fast-mode summary into a convergence ratio. At the
// target term the ratio compares the clipped terminal withdrawal against the
// scheduled one; away from it, the term ratio itself. A diverged run simply
// reports its truncated term, which lands the ratio far outside the band on
// the side that steers the search back.
func termObjective(sum simulation.Summary, targetPeriods int, targetYears float64, invert bool) float64 {
	if sum.Periods == targetPeriods && !sum.Diverged {
		if invert {
			if sum.FinalAppliedWithdrawal == 0 {
				return math.Inf(1)
			}
			return sum.FinalScheduledWithdrawal / sum.FinalAppliedWithdrawal
		}
		if sum.FinalScheduledWithdrawal == 0 {
			return math.Inf(1)
		}
		return sum.FinalAppliedWithdrawal / sum.FinalScheduledWithdrawal
	}
	if invert {
		if sum.ActualTermYears == 0 {
			return math.Inf(1)
		}
		return targetYears / sum.ActualTermYears
	}
	return sum.ActualTermYears / targetYears
}

func solveWithdrawal(logger *zap.Logger, in Input) (simulation.Input, float64, error) {
	base := simulation.Input{
		Principal:                 *in.Principal,
		TermYears:                 in.TermYears,
		AnnualRatePercent:         *in.AnnualRatePercent,
		CompoundingPeriodsPerYear: in.periodsPerYear(),
		AnnualIncreasePercent:     in.AnnualIncreasePercent,
	}
	targetPeriods := int(math.Round(*in.TermYears * constants.MonthsPerYear))

	objective := func(trial float64) (float64, error) {
		trialInput := base
		trialInput.MonthlyWithdrawal = trial
		sum, err := simulation.SimulateSummary(trialInput)
		if err != nil {
			return 0, err
		}
		return termObjective(sum, targetPeriods, *in.TermYears, false), nil
	}

	// The interest-only withdrawal holds the balance level, which puts the
	// search within reach of the depleting solution on either side.
	initial := *in.Principal * simulation.EffectiveMonthlyRate(*in.AnnualRatePercent, in.periodsPerYear())

	value, err := solver.New(logger).FindMoneyParameter(objective, solver.Decreasing, 100, initial)
	if err != nil {
		return simulation.Input{}, 0, err
	}
	resolved := base
	resolved.MonthlyWithdrawal = value
	return resolved, value, nil
}

func solvePrincipal(logger *zap.Logger, in Input) (simulation.Input, float64, error) {
	base := simulation.Input{
		TermYears:                 in.TermYears,
		AnnualRatePercent:         *in.AnnualRatePercent,
		CompoundingPeriodsPerYear: in.periodsPerYear(),
		MonthlyWithdrawal:         *in.MonthlyWithdrawal,
		AnnualIncreasePercent:     in.AnnualIncreasePercent,
	}
	targetPeriods := int(math.Round(*in.TermYears * constants.MonthsPerYear))

	objective := func(trial float64) (float64, error) {
		trialInput := base
		trialInput.Principal = trial
		sum, err := simulation.SimulateSummary(trialInput)
		if err != nil {
			return 0, err
		}
		return termObjective(sum, targetPeriods, *in.TermYears, true), nil
	}

	value, err := solver.New(logger).FindMoneyParameter(objective, solver.Increasing, *in.MonthlyWithdrawal, *in.MonthlyWithdrawal)
	if err != nil {
		return simulation.Input{}, 0, err
	}
	resolved := base
	resolved.Principal = value
	return resolved, value, nil
}

func solveRate(logger *zap.Logger, in Input) (simulation.Input, float64, error) {
	base := simulation.Input{
		Principal:                 *in.Principal,
		TermYears:                 in.TermYears,
		CompoundingPeriodsPerYear: in.periodsPerYear(),
		MonthlyWithdrawal:         *in.MonthlyWithdrawal,
		AnnualIncreasePercent:     in.AnnualIncreasePercent,
	}
	targetPeriods := int(math.Round(*in.TermYears * constants.MonthsPerYear))

	objective := func(trial float64) (float64, error) {
		trialInput := base
		trialInput.AnnualRatePercent = trial
		sum, err := simulation.SimulateSummary(trialInput)
		if err != nil {
			return 0, err
		}
		return termObjective(sum, targetPeriods, *in.TermYears, true), nil
	}

	value, err := solver.New(logger).Find(objective, solver.Increasing, 1, 0)
	if err != nil {
		return simulation.Input{}, 0, err
	}
	// Rounded down to a clean three-decimal display figure; the small bias is
	// on the conservative side.
	value = math.Floor(value*constants.RateDisplayPrecision) / constants.RateDisplayPrecision
	resolved := base
	resolved.AnnualRatePercent = value
	return resolved, value, nil
}
