package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleEmployee = "employee"
	RoleUser     = "user"
)

// NormalizeRole lowercases and trims a role claim so "ADMIN" and "admin"
// compare equal.
func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// Session is the per-request authentication context built by the session
// gate. It is passed explicitly to every service call that talks to the
// backend on the user's behalf.
type Session struct {
	AccessToken string
	Role        string
	ExpiresAt   time.Time // zero when the token carries no exp claim
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// User is the remote-owned profile of the signed-in account.
type User struct {
	ID              string    `json:"_id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName,omitempty"`
	LastName        string    `json:"lastName,omitempty"`
	ProfilePicture  string    `json:"profilePicture,omitempty"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	IsPhoneVerified bool      `json:"isPhoneVerified"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// FullName joins first and last name, skipping the empty parts.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Employee is a selectable recipient for individually targeted notices.
type Employee struct {
	ID         string `json:"_id"`
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Position   string `json:"position,omitempty"`
	Department string `json:"department,omitempty"`
}
