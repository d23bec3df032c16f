package review

import (
	"time"

	"github.com/shopspring/decimal"
)

const CurrentSchemaVersion = 2

// ReviewAdjustment carries the approver-owned pricing coefficients for one
// claim. Unit prices are keyed by the stable line-item ID, not by position,
// so an employee inserting or removing items between approver edits cannot
// silently shift which price applies to which item. A missing entry means
// "use the system default". The record is created lazily on first open and
// never deleted while the claim exists.
type ReviewAdjustment struct {
	SchemaVersion      int                        `json:"schema_version"`
	EmployeeNumber     string                     `json:"employee_number"`
	Period             string                     `json:"period"`
	UnitPrices         map[string]decimal.Decimal `json:"unit_prices"`
	TravelBonusPerDay  decimal.Decimal            `json:"travel_bonus_per_day"`
	FlatBonus          decimal.Decimal            `json:"flat_bonus"`
	CommissionApproved bool                       `json:"commission_approved"`
	UpdatedAt          time.Time                  `json:"updated_at"`
}
