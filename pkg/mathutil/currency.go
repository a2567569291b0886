// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/openfincalc/drawdown-forecast/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// RoundDownCent truncates a value to the cent below it.
func RoundDownCent(val float64) float64 {
	f, _ := decimal.NewFromFloat(val).RoundFloor(2).Float64()
	return f
}

// RoundUpCent raises a value to the cent above it.
func RoundUpCent(val float64) float64 {
	f, _ := decimal.NewFromFloat(val).RoundCeil(2).Float64()
	return f
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsPositive checks if a value is positive (greater than tolerance)
func IsPositive(val float64) bool {
	return val > constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
