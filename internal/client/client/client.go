package client

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/client/models"
)

// Client is the identity API contract. Each method issues exactly one
// request. Failures are *APIError values matching one of the package
// sentinels. No method touches session state.
type Client interface {
	Login(ctx context.Context, username, password string) (*models.AuthToken, error)
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	RequestEmailVerification(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, token string) error
}
