package model

import (
	"strconv"
	"time"
)

// Role is the closed set of roles a credential can carry. Comparison is
// exact and case-sensitive.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleViewer Role = "viewer"
)

// ParseRole maps a stored or decoded role string onto a known Role.
// Empty and unrecognised values resolve to RoleViewer.
func ParseRole(raw string) Role {
	switch Role(raw) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleViewer
	}
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AuthClaims is the trusted identity decoded from a verified credential.
type AuthClaims struct {
	UserID         int64      `json:"user_id"`
	Username       string     `json:"username"`
	DisplayName    string     `json:"display_name,omitempty"`
	Role           Role       `json:"role"`
	TokenID        string     `json:"jti"`
	IssuedAt       time.Time  `json:"issued_at"`
	ExpiresAt      time.Time  `json:"expires_at"`
	RoleVerifiedAt *time.Time `json:"role_verified_at,omitempty"`
}

func (c *AuthClaims) Subject() string {
	return strconv.FormatInt(c.UserID, 10)
}

type AuthUser struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Role        Role   `json:"role"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresIn int64     `json:"expires_in"`
	ExpiresAt time.Time `json:"expires_at"`
	User      AuthUser  `json:"user"`
}

type UserList struct {
	Users []User `json:"users"`
}

type TokenValidation struct {
	Valid bool     `json:"valid"`
	User  AuthUser `json:"user"`
}
