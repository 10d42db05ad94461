package profiles

import (
	"fmt"
	"strings"
	"time"
)

const maxNameLen = 100

// Profile is the student record attached one-to-one to an account.
type Profile struct {
	ID        string
	AccountID string
	Name      string
	Email     string
	CollegeID *string
	CreatedAt time.Time
}

// Label renders "<name> (<username>)".
func (p Profile) Label(username string) string {
	return fmt.Sprintf("%s (%s)", p.Name, username)
}

// Owner identifies the account a profile is created for.
type Owner struct {
	AccountID string
	Username  string
	FullName  string
	Email     string
}

// DefaultName is the full name when present, otherwise the username.
func (o Owner) DefaultName() string {
	name := strings.TrimSpace(o.FullName)
	if name == "" {
		name = strings.TrimSpace(o.Username)
	}
	if r := []rune(name); len(r) > maxNameLen {
		name = string(r[:maxNameLen])
	}
	return name
}
