package model

import "time"

// Account represents a patron (or admin) with a spendable balance.
// A restricted account cannot buy or borrow until the restriction is cleared.
type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Balance      int       `json:"balance"`
	IsRestricted bool      `json:"is_restricted"`
	CreatedAt    time.Time `json:"created_at"`
}

// Roles.
const (
	RoleAdmin  = "admin"
	RolePatron = "patron"
)

// RoleAtLeast checks if role meets or exceeds the minimum required role.
func RoleAtLeast(role, minimum string) bool {
	levels := map[string]int{
		RoleAdmin:  2,
		RolePatron: 1,
	}
	return levels[role] >= levels[minimum]
}
