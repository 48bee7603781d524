// Package client talks to the remote identity API.
//
// # Overview
//
// The package provides:
//  1. The API contract (see the Client interface): Login, Register,
//     CurrentUser, RequestPasswordReset, ResetPassword,
//     RequestEmailVerification and VerifyEmail.
//  2. A JSON-over-HTTP implementation (see HTTPClient). Requests pass through
//     a transport that applies the shared Headers, so the bearer credential
//     attached there reaches every call, plus a per-request X-Request-ID.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Every failure is an *APIError. Its Kind is one of ErrInvalidCredentials,
// ErrValidation, ErrDuplicateAccount, ErrUnauthenticated,
// ErrInvalidOrExpiredToken, ErrWeakPassword, ErrUnreachable or ErrServer and
// is matched with errors.Is. Message picks the server-provided detail over a
// caller fallback. A 401 is reported, never acted on: deciding whether it
// invalidates the session is up to the caller.
package client
