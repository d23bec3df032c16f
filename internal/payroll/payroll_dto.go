package payroll

type BreakdownResponse struct {
	EmployeeNumber string `json:"employee_number"`
	EmployeeName   string `json:"employee_name"`
	Period         string `json:"period"`
	Base           string `json:"base"`
	Remote         string `json:"remote"`
	LineItemsTotal string `json:"line_items_total"`
	Travel         string `json:"travel"`
	Commission     string `json:"commission"`
	FlatBonus      string `json:"flat_bonus"`
	Total          string `json:"total"`
}

type SummaryResponse struct {
	Period       string              `json:"period"`
	Count        int                 `json:"count"`
	TotalPayable string              `json:"total_payable"`
	Rows         []BreakdownResponse `json:"rows"`
}

func mapToResponse(b Breakdown) BreakdownResponse {
	return BreakdownResponse{
		EmployeeNumber: b.EmployeeNumber,
		EmployeeName:   b.EmployeeName,
		Period:         b.Period,
		Base:           b.Base.StringFixed(2),
		Remote:         b.Remote.StringFixed(2),
		LineItemsTotal: b.LineItemsTotal.StringFixed(2),
		Travel:         b.Travel.StringFixed(2),
		Commission:     b.Commission.StringFixed(2),
		FlatBonus:      b.FlatBonus.StringFixed(2),
		Total:          b.Total.StringFixed(2),
	}
}
