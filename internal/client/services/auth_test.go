package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/forms"
	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake client ----

// fakeClient implements client.Client and records what it was asked.
type fakeClient struct {
	RegisterRet *models.User
	RegisterErr error
	ResetReqErr error
	ResetErr    error
	VerifyErr   error

	Calls []string

	LastUsername string
	LastEmail    string
	LastPassword string
	LastToken    string
}

func (f *fakeClient) Login(context.Context, string, string) (*models.AuthToken, error) {
	f.Calls = append(f.Calls, "login")
	return nil, nil
}

func (f *fakeClient) CurrentUser(context.Context) (*models.User, error) {
	f.Calls = append(f.Calls, "me")
	return nil, nil
}

func (f *fakeClient) Register(_ context.Context, username, email, password string) (*models.User, error) {
	f.Calls = append(f.Calls, "register")
	f.LastUsername, f.LastEmail, f.LastPassword = username, email, password
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) RequestPasswordReset(_ context.Context, email string) error {
	f.Calls = append(f.Calls, "request-reset")
	f.LastEmail = email
	return f.ResetReqErr
}

func (f *fakeClient) ResetPassword(_ context.Context, token, password string) error {
	f.Calls = append(f.Calls, "reset")
	f.LastToken, f.LastPassword = token, password
	return f.ResetErr
}

func (f *fakeClient) RequestEmailVerification(_ context.Context, email string) error {
	f.Calls = append(f.Calls, "request-verify")
	f.LastEmail = email
	return f.VerifyErr
}

func (f *fakeClient) VerifyEmail(_ context.Context, token string) error {
	f.Calls = append(f.Calls, "verify")
	f.LastToken = token
	return f.VerifyErr
}

var _ client.Client = (*fakeClient)(nil)

func newService(fc *fakeClient) AccountService {
	return NewAccountService(fc, logging.Nop())
}

// ---- tests ----

func TestRegister_OK(t *testing.T) {
	fc := &fakeClient{RegisterRet: &models.User{ID: 5, Username: "bob"}}
	svc := newService(fc)

	u, err := svc.Register(context.Background(), forms.Registration{
		Username: "bob", Email: "bob@example.org", Password: "pw", ConfirmPassword: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), u.ID)
	assert.Equal(t, []string{"register"}, fc.Calls)
	assert.Equal(t, "bob", fc.LastUsername)
	assert.Equal(t, "bob@example.org", fc.LastEmail)
	assert.Equal(t, "pw", fc.LastPassword)
}

func TestRegister_InvalidFormMakesNoRequest(t *testing.T) {
	fc := &fakeClient{}
	svc := newService(fc)

	_, err := svc.Register(context.Background(), forms.Registration{
		Username: "bob", Email: "bob@example.org", Password: "pw", ConfirmPassword: "other",
	})
	require.ErrorIs(t, err, forms.ErrInvalid)
	assert.Empty(t, fc.Calls)
}

func TestRegister_Duplicate(t *testing.T) {
	fc := &fakeClient{RegisterErr: &client.APIError{Kind: client.ErrDuplicateAccount, Status: 400, Detail: "Username already registered"}}
	svc := newService(fc)

	_, err := svc.Register(context.Background(), forms.Registration{
		Username: "bob", Email: "bob@example.org", Password: "pw", ConfirmPassword: "pw",
	})
	require.ErrorIs(t, err, client.ErrDuplicateAccount)
	assert.Equal(t, "Username already registered", client.Message(err, "Registration failed"))
}

func TestRequestPasswordReset(t *testing.T) {
	fc := &fakeClient{}
	svc := newService(fc)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), forms.PasswordResetRequest{Email: "a@b.co"}))
	assert.Equal(t, "a@b.co", fc.LastEmail)

	fc.ResetReqErr = &client.APIError{Kind: client.ErrUnreachable}
	err := svc.RequestPasswordReset(context.Background(), forms.PasswordResetRequest{Email: "a@b.co"})
	assert.ErrorIs(t, err, client.ErrUnreachable)

	fc.Calls = nil
	err = svc.RequestPasswordReset(context.Background(), forms.PasswordResetRequest{Email: "nope"})
	assert.ErrorIs(t, err, forms.ErrInvalid)
	assert.Empty(t, fc.Calls)
}

func TestResetPassword(t *testing.T) {
	tests := []struct {
		name      string
		form      forms.PasswordReset
		remoteErr error
		wantErr   error
		wantCalls []string
	}{
		{name: "ok", form: forms.PasswordReset{Token: "tok", Password: "longenough", ConfirmPassword: "longenough"}, wantCalls: []string{"reset"}},
		{name: "missing token", form: forms.PasswordReset{Password: "longenough", ConfirmPassword: "longenough"}, wantErr: forms.ErrMissingResetToken},
		{name: "too short", form: forms.PasswordReset{Token: "tok", Password: "short", ConfirmPassword: "short"}, wantErr: forms.ErrInvalid},
		{name: "expired", form: forms.PasswordReset{Token: "tok", Password: "longenough", ConfirmPassword: "longenough"},
			remoteErr: &client.APIError{Kind: client.ErrInvalidOrExpiredToken, Status: 400}, wantErr: client.ErrInvalidOrExpiredToken, wantCalls: []string{"reset"}},
		{name: "weak", form: forms.PasswordReset{Token: "tok", Password: "longenough", ConfirmPassword: "longenough"},
			remoteErr: &client.APIError{Kind: client.ErrWeakPassword, Status: 422}, wantErr: client.ErrWeakPassword, wantCalls: []string{"reset"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{ResetErr: tt.remoteErr}
			err := newService(fc).ResetPassword(context.Background(), tt.form)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, "tok", fc.LastToken)
				assert.Equal(t, "longenough", fc.LastPassword)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantCalls, fc.Calls)
		})
	}
}

func TestEmailVerification(t *testing.T) {
	fc := &fakeClient{}
	svc := newService(fc)
	ctx := context.Background()

	require.NoError(t, svc.RequestEmailVerification(ctx, forms.EmailVerificationRequest{Email: "a@b.co"}))
	require.NoError(t, svc.VerifyEmail(ctx, forms.EmailVerification{Token: "abc"}))
	assert.Equal(t, "abc", fc.LastToken)
	assert.Equal(t, []string{"request-verify", "verify"}, fc.Calls)

	err := svc.VerifyEmail(ctx, forms.EmailVerification{})
	assert.ErrorIs(t, err, forms.ErrInvalid)

	fc.VerifyErr = &client.APIError{Kind: client.ErrInvalidOrExpiredToken, Status: 400, Detail: "Invalid verification token"}
	err = svc.VerifyEmail(ctx, forms.EmailVerification{Token: "abc"})
	assert.ErrorIs(t, err, client.ErrInvalidOrExpiredToken)
	assert.Equal(t, "Invalid verification token", client.Message(err, "Verification failed"))
}
