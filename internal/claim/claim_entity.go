package claim

import (
	"time"

	"github.com/google/uuid"

	payrollerrors "payclaim/internal/payroll/errors"
)

const (
	StatusDraft     = "DRAFT"
	StatusSubmitted = "SUBMITTED"
	StatusConfirmed = "CONFIRMED"
)

// CurrentSchemaVersion tags every record written by this code. Records read
// back with an older version pass through the upgrade chain first.
const CurrentSchemaVersion = 2

// LineItem is one variable-rate entry on a claim. The ID is assigned once at
// creation and never changes, so approver pricing stays attached to the same
// item even when the employee inserts or removes neighbours.
type LineItem struct {
	ID       uuid.UUID `json:"id"`
	Label    string    `json:"label"`
	Quantity float64   `json:"quantity"`
	Note     string    `json:"note"`
}

// SalaryApplication is one employee's pay claim for one calendar month.
// Quantities are employee-entered; pricing lives on the review adjustment.
// legalWorkdays is employee-entered in this deployment, the approver only
// reads it.
type SalaryApplication struct {
	SchemaVersion  int        `json:"schema_version"`
	EmployeeNumber string     `json:"employee_number"`
	EmployeeName   string     `json:"employee_name"`
	Period         string     `json:"period"`
	LegalWorkdays  float64    `json:"legal_workdays"`
	ActualWorkdays float64    `json:"actual_workdays"`
	RemoteHours    float64    `json:"remote_hours"`
	TravelDays     float64    `json:"travel_days"`
	LineItems      []LineItem `json:"line_items"`
	Status         string     `json:"status"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
}

// ValidatePayable reports whether a pay breakdown can be derived from the
// claim's figures. Confirm runs it before the claim freezes, the payroll
// calculator runs it again before computing.
func (app *SalaryApplication) ValidatePayable() error {
	if app.LegalWorkdays < 0 || app.ActualWorkdays < 0 || app.RemoteHours < 0 || app.TravelDays < 0 {
		return payrollerrors.ErrNegativeInput
	}
	for _, item := range app.LineItems {
		if item.Quantity < 0 {
			return payrollerrors.ErrNegativeInput
		}
	}

	// Day counts are bounded by the calendar month; an unparsable period was
	// already rejected upstream, so it is skipped rather than re-reported here.
	if t, err := time.Parse("2006-01", app.Period); err == nil {
		days := float64(time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day())
		if app.LegalWorkdays > days || app.ActualWorkdays > days || app.TravelDays > days {
			return payrollerrors.ErrCalendarOverflow
		}
	}

	if app.LegalWorkdays == 0 {
		return payrollerrors.ErrDivisionByZero
	}

	return nil
}

// isAllowedStatusTransition encodes the claim state machine. Confirmation is
// terminal: an approved pay decision must not silently change afterwards.
func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	switch currentStatus {
	case StatusDraft:
		return targetStatus == StatusSubmitted
	case StatusSubmitted:
		return targetStatus == StatusDraft || targetStatus == StatusConfirmed
	default:
		return false
	}
}
