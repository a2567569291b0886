package simulation

import "github.com/openfincalc/drawdown-forecast/pkg/constants"

// AnnualRecord rolls twelve monthly periods into one display row. The running
// totals accumulate from the first period of the trace.
type AnnualRecord struct {
	Year            int
	StartBalance    float64
	EndBalance      float64
	InterestPayment float64
	Withdrawal      float64
	TotalInterest   float64
	TotalWithdrawn  float64
}

// ToAnnual buckets the trace into years in chronological order. The final
// bucket may cover fewer than twelve periods.
func ToAnnual(trace *Trace) []AnnualRecord {
	var annual []AnnualRecord
	if trace == nil || len(trace.Periods) == 0 {
		return annual
	}

	cumulativeInterest := 0.0
	cumulativeWithdrawn := 0.0

	for i, p := range trace.Periods {
		if i%constants.MonthsPerYear == 0 {
			annual = append(annual, AnnualRecord{
				Year:         i/constants.MonthsPerYear + 1,
				StartBalance: p.StartBalance,
			})
		}
		record := &annual[len(annual)-1]
		record.InterestPayment += p.InterestPayment
		record.Withdrawal += p.Withdrawal
		record.EndBalance = p.EndBalance
		cumulativeInterest += p.InterestPayment
		cumulativeWithdrawn += p.Withdrawal
		record.TotalInterest = cumulativeInterest
		record.TotalWithdrawn = cumulativeWithdrawn
	}

	return annual
}
