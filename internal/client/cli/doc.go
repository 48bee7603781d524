// Package cli provides the interactive gophauth command-line client.
//
// It wires configuration, local storage, the identity API client, the session
// manager and an interactive REPL. Pages are addressed by path the way a web
// router would address them; each page is guarded by the gate package:
//
//	/                        home (protected)
//	/profile                 user profile (protected)
//	/login                   login form (guest only)
//	/register                registration form (guest only)
//	/request-password-reset  forgot-password form
//	/reset-password?token=   new password form
//	/verify-email?token=     email verification
//
// Opening a protected page while logged out shows the login form; after a
// successful login the originally requested page opens. The REPL is started
// via App.Run(ctx), which blocks until the user exits.
package cli
