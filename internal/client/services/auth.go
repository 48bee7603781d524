// Package services contains application services for the gophauth client.
// This file defines the account service: registration, password reset and
// email verification. Login and logout belong to the session manager.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/forms"
	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// AccountService defines the account operations that do not change the
// session. Every method validates its form first; an invalid form returns an
// error wrapping forms.ErrInvalid and no request is made. Remote failures are
// returned as *client.APIError.
type AccountService interface {
	Register(ctx context.Context, form forms.Registration) (*models.User, error)
	RequestPasswordReset(ctx context.Context, form forms.PasswordResetRequest) error
	ResetPassword(ctx context.Context, form forms.PasswordReset) error
	RequestEmailVerification(ctx context.Context, form forms.EmailVerificationRequest) error
	VerifyEmail(ctx context.Context, form forms.EmailVerification) error
}

type accountService struct {
	client    client.Client
	validator *forms.Validator
	log       logging.Logger
}

// NewAccountService constructs an AccountService bound to the given API client.
func NewAccountService(c client.Client, log logging.Logger) AccountService {
	return &accountService{client: c, validator: forms.NewValidator(), log: log.With("component", "account")}
}

// Register creates an account. It does not log the new user in.
func (a *accountService) Register(ctx context.Context, form forms.Registration) (*models.User, error) {
	if err := a.validator.Validate(form); err != nil {
		return nil, err
	}
	user, err := a.client.Register(ctx, form.Username, form.Email, form.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	a.log.Info(ctx, "account registered", "user", user.Username)
	return user, nil
}

// RequestPasswordReset succeeds the same way whether or not the email is known.
func (a *accountService) RequestPasswordReset(ctx context.Context, form forms.PasswordResetRequest) error {
	if err := a.validator.Validate(form); err != nil {
		return err
	}
	if err := a.client.RequestPasswordReset(ctx, form.Email); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}
	return nil
}

func (a *accountService) ResetPassword(ctx context.Context, form forms.PasswordReset) error {
	if err := a.validator.Validate(form); err != nil {
		return err
	}
	if err := a.client.ResetPassword(ctx, form.Token, form.Password); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

func (a *accountService) RequestEmailVerification(ctx context.Context, form forms.EmailVerificationRequest) error {
	if err := a.validator.Validate(form); err != nil {
		return err
	}
	if err := a.client.RequestEmailVerification(ctx, form.Email); err != nil {
		return fmt.Errorf("request email verification: %w", err)
	}
	return nil
}

func (a *accountService) VerifyEmail(ctx context.Context, form forms.EmailVerification) error {
	if err := a.validator.Validate(form); err != nil {
		return err
	}
	if err := a.client.VerifyEmail(ctx, form.Token); err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	return nil
}
