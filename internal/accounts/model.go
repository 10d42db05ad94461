package accounts

import (
	"strings"
	"time"
)

// Account is a login identity. Profiles hang off it one-to-one.
type Account struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// FullName joins first and last name, or returns "" when both are blank.
func (a Account) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
}

// DisplayName is the full name when set, otherwise the username.
func (a Account) DisplayName() string {
	if name := a.FullName(); name != "" {
		return name
	}
	return a.Username
}
