package payroll

import (
	"github.com/shopspring/decimal"

	"payclaim/internal/claim"
	"payclaim/internal/config"
	"payclaim/internal/review"
)

// Breakdown is the itemised pay for one claim. All components carry full
// decimal precision; rounding to two places happens only at the output edge.
type Breakdown struct {
	EmployeeNumber string
	EmployeeName   string
	Period         string
	Base           decimal.Decimal
	Remote         decimal.Decimal
	LineItemsTotal decimal.Decimal
	Travel         decimal.Decimal
	Commission     decimal.Decimal
	FlatBonus      decimal.Decimal
	Total          decimal.Decimal
}

// Compute derives the pay breakdown for one claim under one adjustment.
//
//	base       = (monthlyBase / legalWorkdays) * actualWorkdays
//	remote     = remoteHours * hourlyRate
//	lineItems  = sum(quantity * effectiveUnitPrice)
//	travel     = travelDays * travelBonusPerDay
//	commission = fixed amount if approved, else 0
//	total      = base + remote + lineItems + travel + commission + flatBonus
//
// Compute is pure: it never mutates the claim or the adjustment, and the same
// inputs always yield the same breakdown.
func Compute(app *claim.SalaryApplication, adj *review.ReviewAdjustment, rates config.PayRates) (Breakdown, error) {
	if err := app.ValidatePayable(); err != nil {
		return Breakdown{}, err
	}

	resolver := NewResolver(adj, rates)

	legal := decimal.NewFromFloat(app.LegalWorkdays)
	actual := decimal.NewFromFloat(app.ActualWorkdays)
	base := rates.MonthlyBaseRate.Div(legal).Mul(actual)

	remote := decimal.NewFromFloat(app.RemoteHours).Mul(rates.RemoteHourlyRate)

	lineItems := decimal.Zero
	for _, item := range app.LineItems {
		qty := decimal.NewFromFloat(item.Quantity)
		lineItems = lineItems.Add(qty.Mul(resolver.UnitPrice(item)))
	}

	travel := decimal.NewFromFloat(app.TravelDays).Mul(resolver.TravelBonusPerDay())
	commission := resolver.Commission()
	flatBonus := resolver.FlatBonus()

	total := base.Add(remote).Add(lineItems).Add(travel).Add(commission).Add(flatBonus)

	return Breakdown{
		EmployeeNumber: app.EmployeeNumber,
		EmployeeName:   app.EmployeeName,
		Period:         app.Period,
		Base:           base,
		Remote:         remote,
		LineItemsTotal: lineItems,
		Travel:         travel,
		Commission:     commission,
		FlatBonus:      flatBonus,
		Total:          total,
	}, nil
}
