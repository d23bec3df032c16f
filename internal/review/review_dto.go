package review

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpdateAdjustmentRequest mutates field-by-field: nil pointers leave the
// stored value untouched, and unit price entries merge into the existing map.
type UpdateAdjustmentRequest struct {
	UnitPrices         map[string]float64 `json:"unit_prices"`
	TravelBonusPerDay  *float64           `json:"travel_bonus_per_day"`
	FlatBonus          *float64           `json:"flat_bonus"`
	CommissionApproved *bool              `json:"commission_approved"`
}

type AdjustmentResponse struct {
	EmployeeNumber     string            `json:"employee_number"`
	Period             string            `json:"period"`
	UnitPrices         map[string]string `json:"unit_prices"`
	TravelBonusPerDay  string            `json:"travel_bonus_per_day"`
	FlatBonus          string            `json:"flat_bonus"`
	CommissionApproved bool              `json:"commission_approved"`
	UpdatedAt          string            `json:"updated_at"`
}

type SubmittedClaimResponse struct {
	EmployeeNumber string  `json:"employee_number"`
	EmployeeName   string  `json:"employee_name"`
	Period         string  `json:"period"`
	Status         string  `json:"status"`
	SubmittedAt    *string `json:"submitted_at,omitempty"`
}

func mapToResponse(adj ReviewAdjustment) AdjustmentResponse {
	prices := make(map[string]string, len(adj.UnitPrices))
	for id, p := range adj.UnitPrices {
		prices[id] = p.StringFixed(2)
	}

	return AdjustmentResponse{
		EmployeeNumber:     adj.EmployeeNumber,
		Period:             adj.Period,
		UnitPrices:         prices,
		TravelBonusPerDay:  adj.TravelBonusPerDay.StringFixed(2),
		FlatBonus:          adj.FlatBonus.StringFixed(2),
		CommissionApproved: adj.CommissionApproved,
		UpdatedAt:          adj.UpdatedAt.Format(time.RFC3339),
	}
}

func priceFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}
