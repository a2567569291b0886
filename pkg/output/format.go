// Package output provides utilities for formatting and displaying solve
// results.
package output

import (
	"fmt"
	"strings"

	"github.com/openfincalc/drawdown-forecast/internal/policy"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(result *policy.Result, currencySymbol string) {
	p := message.NewPrinter(language.English)

	fmt.Printf("--- Solved %s ---\n", result.Kind)
	if result.Kind == policy.SolveTerm {
		_, _ = p.Printf("Term: %.2f years\n", result.Summary.SolvedValue)
	} else if result.Kind == policy.SolveRate {
		_, _ = p.Printf("Rate: %.3f%%\n", result.Summary.SolvedValue)
	} else {
		_, _ = p.Printf("%s: %s%.2f\n", titleFor(result.Kind), currencySymbol, result.Summary.SolvedValue)
	}
	_, _ = p.Printf("Initial annual income: %s%.2f (%.1f%% of principal)\n",
		currencySymbol, result.Summary.InitialAnnualIncome, result.Summary.DrawDownPercent)
	_, _ = p.Printf("Total interest: %s%.2f | Total withdrawn: %s%.2f\n\n",
		currencySymbol, result.Summary.TotalInterest, currencySymbol, result.Summary.TotalWithdrawn)

	fmt.Printf("Year | Start Balance   | Interest      | Withdrawn     | End Balance     | Total Interest  | Total Withdrawn\n")
	fmt.Printf("____ | _____________   | ________      | _________     | ___________     | ______________  | _______________\n")
	for _, row := range result.Annual {
		_, _ = p.Printf("%4d | %s%.2f | %s%.2f | %s%.2f | %s%.2f | %s%.2f | %s%.2f\n",
			row.Year,
			currencySymbol, row.StartBalance,
			currencySymbol, row.InterestPayment,
			currencySymbol, row.Withdrawal,
			currencySymbol, row.EndBalance,
			currencySymbol, row.TotalInterest,
			currencySymbol, row.TotalWithdrawn,
		)
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(result *policy.Result) {
	fmt.Print(CsvString(result))
}

// CsvString renders the annual table as CSV for the API and file export.
// Currency symbols are a display concern and never appear here.
func CsvString(result *policy.Result) string {
	var builder strings.Builder
	builder.WriteString(`"year","startBalance","interest","withdrawn","endBalance","totalInterest","totalWithdrawn"` + "\n")
	for _, row := range result.Annual {
		builder.WriteString(fmt.Sprintf(`"%d","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f"`+"\n",
			row.Year, row.StartBalance, row.InterestPayment, row.Withdrawal,
			row.EndBalance, row.TotalInterest, row.TotalWithdrawn))
	}
	return builder.String()
}

func titleFor(kind policy.Kind) string {
	switch kind {
	case policy.SolveWithdrawal:
		return "Monthly withdrawal"
	case policy.SolvePrincipal:
		return "Required principal"
	default:
		return "Value"
	}
}
