package domain

// EnforceRequest is the RBAC check passed from transport middleware to the
// access service. It lives here so both sides can share it without an import
// cycle.
type EnforceRequest struct {
	EmployeeID string
	CompanyID  string
	Resource   string
	Action     string
}
