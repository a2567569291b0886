package simulation

import (
	"testing"

	"github.com/openfincalc/drawdown-forecast/pkg/mathutil"
)

func TestToAnnualBucketing(t *testing.T) {
	tests := []struct {
		name            string
		input           Input
		expectedBuckets int
		lastBucketSize  int
	}{
		{
			"Exact years",
			Input{Principal: 24000, CompoundingPeriodsPerYear: 12, MonthlyWithdrawal: 1000},
			2, 12,
		},
		{
			"Short final bucket",
			Input{Principal: 15000, CompoundingPeriodsPerYear: 12, MonthlyWithdrawal: 1000},
			2, 3,
		},
		{
			"Single short year",
			Input{Principal: 2500, CompoundingPeriodsPerYear: 12, MonthlyWithdrawal: 1000},
			1, 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trace, err := Simulate(tt.input)
			if err != nil {
				t.Fatalf("Simulate returned error: %v", err)
			}
			annual := ToAnnual(trace)
			if len(annual) != tt.expectedBuckets {
				t.Fatalf("got %d annual records, expected %d", len(annual), tt.expectedBuckets)
			}
			lastSize := len(trace.Periods) - (len(annual)-1)*12
			if lastSize != tt.lastBucketSize {
				t.Errorf("last bucket covers %d periods, expected %d", lastSize, tt.lastBucketSize)
			}
			for i, record := range annual {
				if record.Year != i+1 {
					t.Errorf("record %d has year %d, expected %d", i, record.Year, i+1)
				}
			}
		})
	}
}

func TestToAnnualConsistency(t *testing.T) {
	trace, err := Simulate(Input{
		Principal:                 300000,
		AnnualRatePercent:         6,
		CompoundingPeriodsPerYear: 12,
		MonthlyWithdrawal:         2500,
		AnnualIncreasePercent:     3,
	})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	annual := ToAnnual(trace)
	if len(annual) == 0 {
		t.Fatal("expected annual records")
	}

	var bucketInterest, bucketWithdrawn float64
	for _, record := range annual {
		bucketInterest += record.InterestPayment
		bucketWithdrawn += record.Withdrawal
	}
	if !mathutil.WithinTolerance(bucketInterest, trace.TotalInterest(), 1e-6) {
		t.Errorf("annual interest sum %v, trace total %v", bucketInterest, trace.TotalInterest())
	}
	if !mathutil.WithinTolerance(bucketWithdrawn, trace.TotalWithdrawn(), 1e-6) {
		t.Errorf("annual withdrawal sum %v, trace total %v", bucketWithdrawn, trace.TotalWithdrawn())
	}

	last := annual[len(annual)-1]
	if !mathutil.WithinTolerance(last.TotalInterest, trace.TotalInterest(), 1e-6) {
		t.Errorf("running TotalInterest %v, expected grand total %v", last.TotalInterest, trace.TotalInterest())
	}
	if !mathutil.WithinTolerance(last.TotalWithdrawn, trace.TotalWithdrawn(), 1e-6) {
		t.Errorf("running TotalWithdrawn %v, expected grand total %v", last.TotalWithdrawn, trace.TotalWithdrawn())
	}

	// Bucket boundaries line up with the underlying periods.
	for i, record := range annual {
		first := trace.Periods[i*12]
		if record.StartBalance != first.StartBalance {
			t.Errorf("year %d start balance %v, expected %v", record.Year, record.StartBalance, first.StartBalance)
		}
		lastIdx := i*12 + 11
		if lastIdx >= len(trace.Periods) {
			lastIdx = len(trace.Periods) - 1
		}
		if record.EndBalance != trace.Periods[lastIdx].EndBalance {
			t.Errorf("year %d end balance %v, expected %v", record.Year, record.EndBalance, trace.Periods[lastIdx].EndBalance)
		}
	}
}

func TestToAnnualEmptyTrace(t *testing.T) {
	if got := ToAnnual(&Trace{}); len(got) != 0 {
		t.Errorf("expected no records for an empty trace, got %d", len(got))
	}
	if got := ToAnnual(nil); len(got) != 0 {
		t.Errorf("expected no records for a nil trace, got %d", len(got))
	}
}
