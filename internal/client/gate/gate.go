// Package gate decides, for a requested view and the current session, whether
// the view renders, waits for bootstrap, or redirects.
//
// Protected views require an authenticated session; anonymous visitors are
// sent to the login view together with an Intent recording where they were
// going. Guest-only views (login, register) send authenticated visitors to
// their Intent, or to the landing view when none was carried. While the
// session is still loading every guarded view is Pending: neither the view nor
// a redirect is produced.
package gate

import (
	"github.com/dmitrijs2005/gophauth/internal/client/session"
)

type Kind int

const (
	Render Kind = iota
	Pending
	Redirect
)

func (k Kind) String() string {
	switch k {
	case Render:
		return "render"
	case Pending:
		return "pending"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Intent is the originally requested destination carried through a redirect
// to login.
type Intent struct {
	Path string
}

// Decision is the outcome of a gate check. Target is set only for Redirect.
// Intent travels with the decision so the destination view can hand it back
// to GuestOnly after a successful login.
type Decision struct {
	Kind   Kind
	Target string
	Intent *Intent
}

type Gate struct {
	loginPath   string
	landingPath string
}

func New(loginPath, landingPath string) *Gate {
	return &Gate{loginPath: loginPath, landingPath: landingPath}
}

// LoginPath is where anonymous visitors of protected views are sent.
func (g *Gate) LoginPath() string { return g.loginPath }

// LandingPath is the default destination after login.
func (g *Gate) LandingPath() string { return g.landingPath }

// Protected guards a view that needs an authenticated session.
func (g *Gate) Protected(st session.State, path string) Decision {
	switch st.Status() {
	case session.StatusUnknown:
		return Decision{Kind: Pending}
	case session.StatusAuthenticated:
		return Decision{Kind: Render}
	default:
		return Decision{Kind: Redirect, Target: g.loginPath, Intent: &Intent{Path: path}}
	}
}

// GuestOnly guards a view meant for anonymous visitors. intent may be nil.
func (g *Gate) GuestOnly(st session.State, intent *Intent) Decision {
	switch st.Status() {
	case session.StatusUnknown:
		return Decision{Kind: Pending, Intent: intent}
	case session.StatusAuthenticated:
		return Decision{Kind: Redirect, Target: g.destination(intent)}
	default:
		return Decision{Kind: Render, Intent: intent}
	}
}

// destination never sends a user back to the login view itself.
func (g *Gate) destination(intent *Intent) string {
	if intent == nil || intent.Path == "" || intent.Path == g.loginPath {
		return g.landingPath
	}
	return intent.Path
}
