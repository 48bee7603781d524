package session

import "github.com/dmitrijs2005/gophauth/internal/client/models"

// Status is the coarse session state derived from a State.
type Status string

const (
	StatusUnknown       Status = "unknown"
	StatusAuthenticated Status = "authenticated"
	StatusAnonymous     Status = "anonymous"
)

// State is a snapshot of the session. IsAuthenticated implies Token is set;
// it does not imply User is set. While IsLoading is true no gating decision
// should be taken from the other fields.
type State struct {
	IsAuthenticated bool
	User            *models.User
	Token           string
	IsLoading       bool
}

func (s State) Status() Status {
	switch {
	case s.IsLoading:
		return StatusUnknown
	case s.IsAuthenticated:
		return StatusAuthenticated
	default:
		return StatusAnonymous
	}
}

// Username returns the signed-in user's name, or "" when there is none.
func (s State) Username() string {
	if s.User == nil {
		return ""
	}
	return s.User.Username
}

func anonymous() State {
	return State{}
}
