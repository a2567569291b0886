// Package solver implements a bounded 1-D search over a caller-supplied
// objective that maps a trial value to a ratio, with ratio 1 meaning the
// trial satisfies the target exactly.
package solver

import (
	"errors"
	"math"

	"github.com/openfincalc/drawdown-forecast/pkg/constants"
	"github.com/openfincalc/drawdown-forecast/pkg/mathutil"
	"go.uber.org/zap"
)

// ErrSearchFailed indicates the search space was exhausted without finding a
// physically valid value inside the acceptance band.
var ErrSearchFailed = errors.New("no reasonable solution found for the given inputs")

// Direction describes how the objective ratio responds to the trial value.
// Increasing means a larger trial value raises the ratio.
type Direction int

const (
	Increasing Direction = iota
	Decreasing
)

// Objective maps a trial scalar to a convergence ratio. A returned error
// aborts the search immediately.
type Objective func(trial float64) (float64, error)

// Solver performs adaptive bracketing with tiered tolerance relaxation.
type Solver struct {
	logger *zap.Logger
}

// New constructs a Solver; a nil logger is replaced with a no-op one.
func New(logger *zap.Logger) *Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{logger: logger}
}

// Find searches for a value whose objective ratio lands in [1-delta, 1]. The
// upper bound is pinned at 1 across every tier: a ratio above 1 always means
// the trial overshot, no matter how far the lower bound has been relaxed.
// Only the lower bound widens, by a factor of ten per tier.
func (s *Solver) Find(objective Objective, direction Direction, initialStep, initialValue float64) (float64, error) {
	delta := constants.SolverInitialDelta

	for tier := 0; tier < constants.SolverToleranceTiers; tier++ {
		for retry := 0; retry < constants.SolverMaxRestarts; retry++ {
			step := initialStep * math.Pow(2, float64(retry))
			value := initialValue

			for refinement := 0; refinement < constants.SolverMaxRefinements; refinement++ {
				ratio, err := objective(value)
				if err != nil {
					return 0, err
				}

				switch {
				case ratio < 1-delta:
					value -= step
					if direction == Increasing {
						step /= 2
					}
				case ratio <= 1:
					if value < 0 {
						s.logger.Debug("search converged to a negative value",
							zap.String("op", "solver.Find"),
							zap.Float64("value", value),
							zap.Float64("ratio", ratio),
						)
						return 0, ErrSearchFailed
					}
					s.logger.Debug("search converged",
						zap.String("op", "solver.Find"),
						zap.Float64("value", value),
						zap.Float64("delta", delta),
						zap.Int("tier", tier),
						zap.Int("retry", retry),
						zap.Int("refinements", refinement+1),
					)
					return value, nil
				default:
					value += step
					if direction == Decreasing {
						step /= 2
					}
				}
			}
		}
		delta *= 10
	}

	return 0, ErrSearchFailed
}

// FindMoneyParameter wraps Find and snaps the result to the nearest cent on
// the conservative side of the root: down when the ratio rises with the value
// and up when it falls. Presented figures then never overstate achievable
// income nor understate required principal.
func (s *Solver) FindMoneyParameter(objective Objective, direction Direction, initialStep, initialValue float64) (float64, error) {
	value, err := s.Find(objective, direction, initialStep, initialValue)
	if err != nil {
		return 0, err
	}
	if direction == Increasing {
		return mathutil.RoundDownCent(value), nil
	}
	return mathutil.RoundUpCent(value), nil
}
