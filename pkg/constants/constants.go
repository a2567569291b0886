// Package constants provides shared constants for the drawdown-forecast
// application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent); a
	// balance below this is treated as exhausted
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DefaultCompoundingPeriods is the compounding frequency assumed when the
	// configuration omits one
	DefaultCompoundingPeriods = 12
)

// Simulation bounds
const (
	// TermOverrunFactor bounds a term-targeted simulation at
	// TermOverrunFactor * term * 12 periods before it is declared divergent
	TermOverrunFactor = 2

	// MaxOpenEndedYears bounds an open-ended simulation; exceeding it is a
	// calculation-too-long condition rather than a solver retry signal
	MaxOpenEndedYears = 1000
)

// Solver bounds
const (
	// SolverInitialDelta is the starting half-width of the acceptance band
	SolverInitialDelta = 1e-10

	// SolverToleranceTiers is the number of times the band is relaxed by a
	// factor of ten
	SolverToleranceTiers = 18

	// SolverMaxRestarts is the number of step-doubling restarts per tier
	SolverMaxRestarts = 11

	// SolverMaxRefinements is the number of refinement steps per restart
	SolverMaxRefinements = 1000

	// RateDisplayPrecision is the power of ten used when rounding a solved
	// interest rate for display (3 decimal places)
	RateDisplayPrecision = 1000
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultCurrencySymbol is used when the configuration does not override it
	DefaultCurrencySymbol = "$"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML
	// scenarios (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
