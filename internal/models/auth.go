package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole represents the portal roles recognised by the gateway.
type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleGuard      UserRole = "GUARD"
	RoleDepartment UserRole = "DEPARTMENT"
	RoleFaculty    UserRole = "FACULTY"
)

// LoginRequest holds credentials forwarded to the upstream backend.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the gateway-issued session token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
	DeptID   string   `json:"dept_id,omitempty"`
	ProfID   string   `json:"prof_id,omitempty"`
}

// JWTClaims are embedded in gateway-issued access tokens. DeptID travels with
// department and guard sessions so scan and report endpoints know which
// department is acting without trusting the client.
type JWTClaims struct {
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
	DeptID   string   `json:"dept_id,omitempty"`
	ProfID   string   `json:"prof_id,omitempty"`
	jwt.RegisteredClaims
}

// CreateUserRequest is proxied to the upstream user store.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
	DeptID   string `json:"dept_id,omitempty"`
	ProfID   string `json:"prof_id,omitempty"`
}
