package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/forms"
	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/dmitrijs2005/gophauth/internal/secret"
)

const dateLayout = "2006-01-02"

// describe turns err into the line shown to the user.
func describe(err error, fallback string) string {
	switch {
	case errors.Is(err, forms.ErrInvalid):
		return strings.Join(forms.Problems(err), "; ")
	case errors.Is(err, client.ErrUnreachable):
		return client.Message(err, "Cannot reach the server. Please try again later.")
	default:
		return client.Message(err, fallback)
	}
}

func (a *App) printError(err error, fallback string) {
	fmt.Fprintln(a.out, "Error:", describe(err, fallback))
}

func (a *App) homePage(ctx context.Context, _ url.Values) {
	st := a.session.State()
	fmt.Fprintln(a.out, "Welcome to the Home Page!")
	if st.User != nil {
		fmt.Fprintf(a.out, "Hello, %s!\n", displayName(st.User))
	}
	fmt.Fprintln(a.out, "Type 'profile' to see your account or 'logout' to leave.")
}

func displayName(u *models.User) string {
	if u.Username != "" {
		return u.Username
	}
	if u.Email != "" {
		return u.Email
	}
	return "User"
}

func (a *App) profilePage(ctx context.Context, _ url.Values) {
	u := a.session.State().User
	if u == nil {
		fmt.Fprintln(a.out, "No user data.")
		return
	}
	fmt.Fprintf(a.out, "ID:       %d\n", u.ID)
	fmt.Fprintf(a.out, "Username: %s\n", u.Username)
	fmt.Fprintf(a.out, "Email:    %s\n", u.Email)
	fmt.Fprintf(a.out, "Active:   %s\n", yesNo(u.IsActive))
	fmt.Fprintf(a.out, "Verified: %s\n", yesNo(u.IsVerified))
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(a.out, "Joined:   %s\n", u.CreatedAt.Format(dateLayout))
	}
	if !u.IsVerified {
		fmt.Fprintln(a.out, "Your email is not verified yet. Type 'resend' to get a new link.")
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func (a *App) loginPage(ctx context.Context, _ url.Values) {
	if in := a.currentIntent(); in != nil {
		fmt.Fprintf(a.out, "Please log in to open %s.\n", in.Path)
	}

	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		a.printError(err, "Could not read input.")
		return
	}
	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		a.printError(err, "Could not read input.")
		return
	}
	defer secret.Wipe(password)

	form := forms.Login{Username: username, Password: string(password)}
	if err := a.forms.Validate(form); err != nil {
		a.printError(err, "")
		return
	}

	fmt.Fprintln(a.out, "Logging in...")
	if err := a.session.Login(ctx, models.LoginCredentials{Username: form.Username, Password: form.Password}); err != nil {
		a.log.Info(ctx, "login failed", "user", form.Username, "error", err)
		a.printError(err, "Login failed. Please check your credentials.")
		return
	}

	fmt.Fprintf(a.out, "Logged in as %s.\n", a.session.State().Username())
	a.Navigate(ctx, a.gate.LoginPath())
}

func (a *App) registerPage(ctx context.Context, _ url.Values) {
	var form forms.Registration
	var err error

	if form.Username, err = getSimpleText(a.reader, "Username", a.out); err != nil {
		a.printError(err, "Could not read input.")
		return
	}
	if form.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		a.printError(err, "Could not read input.")
		return
	}
	pw, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		a.printError(err, "Could not read input.")
		return
	}
	defer secret.Wipe(pw)
	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		a.printError(err, "Could not read input.")
		return
	}
	defer secret.Wipe(confirm)
	form.Password, form.ConfirmPassword = string(pw), string(confirm)

	fmt.Fprintln(a.out, "Registering...")
	if _, err := a.accounts.Register(ctx, form); err != nil {
		a.printError(err, "Registration failed. Please try again.")
		return
	}
	fmt.Fprintln(a.out, "Registration successful! Check your email to verify your account, then log in.")
}

func (a *App) requestPasswordResetPage(ctx context.Context, _ url.Values) {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		a.printError(err, "Could not read input.")
		return
	}

	if err := a.accounts.RequestPasswordReset(ctx, forms.PasswordResetRequest{Email: email}); err != nil {
		a.printError(err, "Failed to send password reset link. Please try again.")
		return
	}
	fmt.Fprintln(a.out, "If an account with that email exists, a password reset link has been sent.")
}

func (a *App) resetPasswordPage(ctx context.Context, q url.Values) {
	form := forms.PasswordReset{Token: q.Get("token")}
	if err := a.forms.Validate(form); errors.Is(err, forms.ErrMissingResetToken) {
		a.printError(err, "")
		fmt.Fprintln(a.out, "Use the link from your email: reset <token>")
		return
	}

	pw, err := getPassword(a.reader, "New password", a.out)
	if err != nil {
		a.printError(err, "Could not read input.")
		return
	}
	defer secret.Wipe(pw)
	confirm, err := getPassword(a.reader, "Confirm new password", a.out)
	if err != nil {
		a.printError(err, "Could not read input.")
		return
	}
	defer secret.Wipe(confirm)
	form.Password, form.ConfirmPassword = string(pw), string(confirm)

	if err := a.accounts.ResetPassword(ctx, form); err != nil {
		a.printError(err, "Failed to reset password. The link may be invalid or expired.")
		return
	}
	fmt.Fprintln(a.out, "Your password has been reset. You can now log in.")
}

func (a *App) verifyEmailPage(ctx context.Context, q url.Values) {
	token := q.Get("token")
	if token == "" {
		fmt.Fprintln(a.out, "No verification token found. Please use the link sent to your email.")
		return
	}

	fmt.Fprintln(a.out, "Verifying your email address...")
	if err := a.accounts.VerifyEmail(ctx, forms.EmailVerification{Token: token}); err != nil {
		a.printError(err, "Failed to verify email. The link may be invalid or expired.")
		fmt.Fprintln(a.out, "Type 'resend' to request a new verification link.")
		return
	}
	fmt.Fprintln(a.out, "Your email has been successfully verified! You can now log in.")
}
