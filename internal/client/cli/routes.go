package cli

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/client/gate"
)

// Access says which gate check a route goes through.
type Access int

const (
	Public Access = iota
	Protected
	GuestOnly
)

// maxRedirects bounds a single Navigate call.
const maxRedirects = 5

type page func(a *App, ctx context.Context, query url.Values)

type route struct {
	title  string
	access Access
	render page
}

func routeTable(c *config.Config) map[string]route {
	home := route{title: "Home", access: Protected, render: (*App).homePage}

	routes := map[string]route{
		"/":                       home,
		"/profile":                {title: "User Profile", access: Protected, render: (*App).profilePage},
		"/register":               {title: "Register", access: GuestOnly, render: (*App).registerPage},
		"/request-password-reset": {title: "Forgot Password", access: Public, render: (*App).requestPasswordResetPage},
		"/reset-password":         {title: "Reset Password", access: Public, render: (*App).resetPasswordPage},
		"/verify-email":           {title: "Email Verification", access: Public, render: (*App).verifyEmailPage},
	}
	routes[c.LoginPath] = route{title: "Login", access: GuestOnly, render: (*App).loginPage}
	if _, ok := routes[c.LandingPath]; !ok {
		routes[c.LandingPath] = home
	}
	return routes
}

// Navigate opens target, a path with an optional query, following gate
// redirects. Unknown paths show the not-found page.
func (a *App) Navigate(ctx context.Context, target string) {
	for range maxRedirects {
		u, err := url.Parse(target)
		if err != nil || u.Path == "" {
			a.notFound(target)
			return
		}

		r, ok := a.routes[u.Path]
		if !ok {
			a.notFound(u.Path)
			return
		}

		d := a.decide(r.access, u.RequestURI())
		switch d.Kind {
		case gate.Pending:
			fmt.Fprintln(a.out, "Loading...")
			return
		case gate.Redirect:
			a.log.Debug(ctx, "redirect", "from", u.Path, "to", d.Target)
			target = d.Target
			continue
		}

		a.setCurrent(u.Path)
		fmt.Fprintf(a.out, "\n== %s ==\n", r.title)
		r.render(a, ctx, u.Query())
		return
	}
	fmt.Fprintln(a.out, "Too many redirects.")
}

// decide runs the gate for access and keeps the intent bookkeeping: a
// protected redirect records where the user was going, a guest-only redirect
// consumes it, and any other rendered page forgets it.
func (a *App) decide(access Access, path string) gate.Decision {
	st := a.session.State()

	a.mu.Lock()
	defer a.mu.Unlock()

	switch access {
	case Protected:
		d := a.gate.Protected(st, path)
		switch d.Kind {
		case gate.Redirect:
			a.intent = d.Intent
		case gate.Render:
			a.intent = nil
		}
		return d
	case GuestOnly:
		d := a.gate.GuestOnly(st, a.intent)
		if d.Kind == gate.Redirect {
			a.intent = nil
		}
		return d
	default:
		a.intent = nil
		return gate.Decision{Kind: gate.Render}
	}
}

func (a *App) notFound(path string) {
	a.setCurrent("")
	a.mu.Lock()
	a.intent = nil
	a.mu.Unlock()
	fmt.Fprintf(a.out, "\n== 404 - Page Not Found ==\nNothing lives at %s. Type 'home' to go back.\n", path)
}

func (a *App) setCurrent(path string) {
	a.mu.Lock()
	a.current = path
	a.mu.Unlock()
}

func (a *App) currentIntent() *gate.Intent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.intent
}
