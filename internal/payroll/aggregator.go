package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Summary is the period-level roll-up over confirmed claims. Rows are ordered
// by employee number so the total and the listing are stable regardless of
// the order the underlying records came back in.
type Summary struct {
	Period       string
	Count        int
	TotalPayable decimal.Decimal
	Rows         []Breakdown
}

func Aggregate(period string, rows []Breakdown) Summary {
	sorted := make([]Breakdown, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EmployeeNumber < sorted[j].EmployeeNumber
	})

	total := decimal.Zero
	for _, row := range sorted {
		total = total.Add(row.Total)
	}

	return Summary{
		Period:       period,
		Count:        len(sorted),
		TotalPayable: total,
		Rows:         sorted,
	}
}
