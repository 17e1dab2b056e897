package models

// UserRole represents the roles that drive request scoping.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleAnalyst UserRole = "analyst"
)

// User is an account able to sign in to the dashboard.
type User struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	PasswordHash   string   `json:"-"`
	Name           string   `json:"name"`
	Role           UserRole `json:"role"`
	AdminID        int      `json:"admin_id"`
	DepartmentID   int      `json:"department_id"`
	DepartmentName string   `json:"department,omitempty"`
}

// Viewer is the identity the filter pipeline scopes requests for.
type Viewer struct {
	Role         UserRole
	AdminID      int
	DepartmentID int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
