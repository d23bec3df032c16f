package employee

type CreateEmployeeRequest struct {
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name" binding:"required"`
	Credential     string `json:"credential" binding:"required"`
}

type UpdateEmployeeRequest struct {
	FullName   string  `json:"full_name" binding:"required"`
	Credential *string `json:"credential"`
	IsActive   *bool   `json:"is_active"`
}

type EmployeeResponse struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
	IsActive       bool   `json:"is_active"`
}
