package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	Role         UserRole `json:"role"`
	AdminID      int      `json:"admin_id"`
	DepartmentID int      `json:"department_id"`
	Department   string   `json:"department,omitempty"`
}

// ForgotPasswordResponse carries the demo reset link.
type ForgotPasswordResponse struct {
	Msg      string `json:"msg"`
	DemoLink string `json:"demo_link"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID       string   `json:"user_id"`
	Role         UserRole `json:"role"`
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	AdminID      int      `json:"admin_id"`
	DepartmentID int      `json:"department_id"`
	jwt.RegisteredClaims
}

// Viewer converts the claims into the identity used for request scoping.
func (c *JWTClaims) Viewer() Viewer {
	if c == nil {
		return Viewer{Role: RoleAnalyst}
	}
	return Viewer{Role: c.Role, AdminID: c.AdminID, DepartmentID: c.DepartmentID}
}
