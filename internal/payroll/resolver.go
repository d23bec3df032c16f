package payroll

import (
	"github.com/shopspring/decimal"

	"payclaim/internal/claim"
	"payclaim/internal/config"
	"payclaim/internal/review"
)

// Resolver turns the approver's sparse adjustment into a concrete price for
// every pay component. A nil adjustment behaves exactly like an empty one:
// every lookup falls back to the configured defaults, which is what makes
// computing a claim that was never reviewed well-defined.
type Resolver struct {
	adj   *review.ReviewAdjustment
	rates config.PayRates
}

func NewResolver(adj *review.ReviewAdjustment, rates config.PayRates) Resolver {
	return Resolver{adj: adj, rates: rates}
}

// UnitPrice returns the effective price for one line item. Prices are keyed
// by the item's stable ID; entries for items that no longer exist on the
// claim are simply never consulted. Negative stored values are treated as
// absent rather than rejected, since they can only come from legacy records.
func (r Resolver) UnitPrice(item claim.LineItem) decimal.Decimal {
	if r.adj == nil {
		return r.rates.DefaultUnitPrice
	}
	price, ok := r.adj.UnitPrices[item.ID.String()]
	if !ok || price.IsNegative() {
		return r.rates.DefaultUnitPrice
	}
	return price
}

func (r Resolver) TravelBonusPerDay() decimal.Decimal {
	if r.adj == nil || r.adj.TravelBonusPerDay.IsNegative() {
		return r.rates.DefaultTravelBonus
	}
	return r.adj.TravelBonusPerDay
}

// Commission is all-or-nothing: the approver toggles it, the amount is fixed
// by configuration.
func (r Resolver) Commission() decimal.Decimal {
	if r.adj != nil && r.adj.CommissionApproved {
		return r.rates.CommissionBonus
	}
	return decimal.Zero
}

func (r Resolver) FlatBonus() decimal.Decimal {
	if r.adj == nil {
		return decimal.Zero
	}
	return r.adj.FlatBonus
}
