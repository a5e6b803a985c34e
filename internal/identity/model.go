package identity

import (
	"strings"
	"time"
)

// FullName is a user's display name split the way the clients send it.
type FullName struct {
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
}

// String joins the non-empty name parts with single spaces.
func (n FullName) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{n.FirstName, n.MiddleName, n.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// User is a registered account. PasswordHash always holds a salted digest,
// never the plaintext. Friends and weight entries are stored separately.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     FullName
	PasswordHash []byte
	CreatedAt    time.Time
}

// PublicUser is the view of a User that may leave the service.
type PublicUser struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	FullName FullName `json:"full_name"`
	Email    string   `json:"email"`
}

// Public strips credentials from the user.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, FullName: u.FullName, Email: u.Email}
}
