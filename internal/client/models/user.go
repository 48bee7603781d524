// Package models defines the data shapes exchanged with the identity API and
// held by the client session.
package models

import (
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// User is the account record returned by the identity API. A User held by the
// session is always a complete server record; the client never assembles one
// from partial data.
type User struct {
	ID         int64      `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	IsActive   bool       `json:"is_active"`
	IsVerified bool       `json:"is_verified_email"`
	CreatedAt  timex.Time `json:"created_at"`
	UpdatedAt  timex.Time `json:"updated_at"`
}

// Complete reports whether u carries the identifying fields every server
// record has.
func (u *User) Complete() bool {
	return u != nil && u.ID != 0 && u.Username != ""
}
