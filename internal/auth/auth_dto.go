package auth

type EmployeeLoginRequest struct {
	EmployeeNumber string `json:"employee_number" binding:"required"`
	Password       string `json:"password" binding:"required"`
}

type ApproverLoginRequest struct {
	Passphrase string `json:"passphrase" binding:"required"`
}

type LoginResponse struct {
	AccessToken    string `json:"access_token"`
	TokenType      string `json:"token_type"`
	ExpiresIn      int64  `json:"expires_in"`
	Role           string `json:"role"`
	EmployeeNumber string `json:"employee_number,omitempty"`
}

type MeResponse struct {
	ActorID        string `json:"actor_id"`
	Role           string `json:"role"`
	EmployeeNumber string `json:"employee_number,omitempty"`
	FullName       string `json:"full_name,omitempty"`
}
