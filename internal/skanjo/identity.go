package skanjo

// Identity is the authenticated user record returned by register and login.
type Identity struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
	Position    string `json:"position"`
	APIKey      string `json:"api_key"`
	IsActive    bool   `json:"is_active"`
}
