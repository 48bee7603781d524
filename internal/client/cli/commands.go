package cli

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/credentials"
	"github.com/dmitrijs2005/gophauth/internal/client/forms"
	"github.com/dmitrijs2005/gophauth/internal/secret"
)

// now is a test seam for the token page.
var now = time.Now

// Open navigates to a page by path, e.g. "/profile" or "/verify-email?token=x".
func (a *App) Open(ctx context.Context, target string) {
	a.Navigate(ctx, target)
}

func (a *App) Home(ctx context.Context)     { a.Navigate(ctx, a.gate.LandingPath()) }
func (a *App) Profile(ctx context.Context)  { a.Navigate(ctx, "/profile") }
func (a *App) Login(ctx context.Context)    { a.Navigate(ctx, a.gate.LoginPath()) }
func (a *App) Register(ctx context.Context) { a.Navigate(ctx, "/register") }
func (a *App) Forgot(ctx context.Context)   { a.Navigate(ctx, "/request-password-reset") }

func (a *App) Reset(ctx context.Context, token string) {
	a.Navigate(ctx, "/reset-password?"+url.Values{"token": {token}}.Encode())
}

func (a *App) Verify(ctx context.Context, token string) {
	a.Navigate(ctx, "/verify-email?"+url.Values{"token": {token}}.Encode())
}

// ResendVerification asks for a new verification email. A logged-in user's
// own address is used; otherwise the address is prompted for.
func (a *App) ResendVerification(ctx context.Context) {
	var email string
	if u := a.session.State().User; u != nil {
		if u.IsVerified {
			fmt.Fprintln(a.out, "Your email is already verified.")
			return
		}
		email = u.Email
	} else {
		var err error
		if email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
			a.printError(err, "Could not read input.")
			return
		}
	}

	if err := a.accounts.RequestEmailVerification(ctx, forms.EmailVerificationRequest{Email: email}); err != nil {
		a.printError(err, "Failed to send verification email. Please try again.")
		return
	}
	fmt.Fprintf(a.out, "A verification link has been sent to %s.\n", email)
}

// ShowToken prints what the current access token claims about itself. The
// claims are not verified and are shown for information only.
func (a *App) ShowToken(ctx context.Context) {
	token := a.session.State().Token
	if token == "" {
		fmt.Fprintln(a.out, "Not logged in.")
		return
	}

	fmt.Fprintf(a.out, "Token:   %s\n", secret.Mask(token))
	info, err := credentials.Inspect(token)
	if err != nil {
		a.log.Debug(ctx, "token not inspectable", "error", err)
		fmt.Fprintln(a.out, "The token is opaque; no claims to show.")
		return
	}
	if info.Subject != "" {
		fmt.Fprintf(a.out, "Subject: %s\n", info.Subject)
	}
	if !info.IssuedAt.IsZero() {
		fmt.Fprintf(a.out, "Issued:  %s\n", info.IssuedAt.UTC().Format(time.RFC3339))
	}
	switch {
	case info.ExpiresAt.IsZero():
		fmt.Fprintln(a.out, "Expires: never")
	case info.Expired(now()):
		fmt.Fprintf(a.out, "Expires: %s (expired)\n", info.ExpiresAt.UTC().Format(time.RFC3339))
	default:
		fmt.Fprintf(a.out, "Expires: %s (in %s)\n", info.ExpiresAt.UTC().Format(time.RFC3339),
			info.ExpiresAt.Sub(now()).Round(time.Second))
	}
}

// Logout ends the session. The login page is not opened automatically since
// it would start prompting right away.
func (a *App) Logout(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in.")
		return
	}
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out. Type 'login' to sign in again.")
	a.setCurrent("")
}

// PrintStatus shows the session state.
func (a *App) PrintStatus(context.Context) {
	st := a.session.State()
	fmt.Fprintf(a.out, "Session: %s\n", st.Status())
	if st.User != nil {
		fmt.Fprintf(a.out, "User:    %s <%s>\n", st.User.Username, st.User.Email)
	}
}
