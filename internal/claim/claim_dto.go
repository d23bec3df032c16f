package claim

import "time"

// SaveDraftRequest carries every employee-editable field. saveDraft persists
// what it is given beyond basic shape; calendar-bound and sign checks happen
// when the payroll is computed, so a half-filled draft is always storable.
type SaveDraftRequest struct {
	LegalWorkdays  float64           `json:"legal_workdays"`
	ActualWorkdays float64           `json:"actual_workdays"`
	RemoteHours    float64           `json:"remote_hours"`
	TravelDays     float64           `json:"travel_days"`
	LineItems      []LineItemRequest `json:"line_items" binding:"dive"`
}

// LineItemRequest keeps the item ID when the client echoes one back, so
// approver pricing stays attached across edits. New items come without an ID.
type LineItemRequest struct {
	ID       string  `json:"id"`
	Label    string  `json:"label" binding:"required"`
	Quantity float64 `json:"quantity"`
	Note     string  `json:"note"`
}

type LineItemResponse struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Quantity float64 `json:"quantity"`
	Note     string  `json:"note"`
}

type ClaimResponse struct {
	EmployeeNumber string             `json:"employee_number"`
	EmployeeName   string             `json:"employee_name"`
	Period         string             `json:"period"`
	LegalWorkdays  float64            `json:"legal_workdays"`
	ActualWorkdays float64            `json:"actual_workdays"`
	RemoteHours    float64            `json:"remote_hours"`
	TravelDays     float64            `json:"travel_days"`
	LineItems      []LineItemResponse `json:"line_items"`
	Status         string             `json:"status"`
	SubmittedAt    *string            `json:"submitted_at,omitempty"`
	ConfirmedAt    *string            `json:"confirmed_at,omitempty"`
}

func mapToResponse(app SalaryApplication) ClaimResponse {
	items := make([]LineItemResponse, len(app.LineItems))
	for i, item := range app.LineItems {
		items[i] = LineItemResponse{
			ID:       item.ID.String(),
			Label:    item.Label,
			Quantity: item.Quantity,
			Note:     item.Note,
		}
	}

	resp := ClaimResponse{
		EmployeeNumber: app.EmployeeNumber,
		EmployeeName:   app.EmployeeName,
		Period:         app.Period,
		LegalWorkdays:  app.LegalWorkdays,
		ActualWorkdays: app.ActualWorkdays,
		RemoteHours:    app.RemoteHours,
		TravelDays:     app.TravelDays,
		LineItems:      items,
		Status:         app.Status,
	}
	if app.SubmittedAt != nil {
		v := app.SubmittedAt.Format(time.RFC3339)
		resp.SubmittedAt = &v
	}
	if app.ConfirmedAt != nil {
		v := app.ConfirmedAt.Format(time.RFC3339)
		resp.ConfirmedAt = &v
	}
	return resp
}
