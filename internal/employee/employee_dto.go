package employee

type CreateEmployeeRequest struct {
	FullName        string `json:"full_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	HourlyRateCents int64  `json:"hourly_rate_cents" binding:"required,gt=0"`
}

type UpdateEmployeeRequest struct {
	FullName        string `json:"full_name" binding:"required"`
	HourlyRateCents int64  `json:"hourly_rate_cents" binding:"required,gt=0"`
	Active          *bool  `json:"active"`
}

type EmployeeResponse struct {
	ID              string `json:"id"`
	CompanyID       string `json:"company_id"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	HourlyRateCents int64  `json:"hourly_rate_cents"`
	Active          bool   `json:"active"`
}
