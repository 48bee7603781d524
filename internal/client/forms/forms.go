// Package forms holds the user-facing input forms and their checks. A form is
// validated before any request is made; a failing form yields an error
// wrapping ErrInvalid whose text lists every problem.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalid = errors.New("invalid form")

// ErrMissingResetToken is reported when a reset link carried no token.
var ErrMissingResetToken = errors.New("invalid or missing reset token")

type Login struct {
	Username string `label:"username" validate:"required"`
	Password string `label:"password" validate:"required"`
}

type Registration struct {
	Username        string `label:"username" validate:"required"`
	Email           string `label:"email" validate:"required,email"`
	Password        string `label:"password" validate:"required"`
	ConfirmPassword string `label:"password confirmation" validate:"required,eqfield=Password"`
}

type PasswordResetRequest struct {
	Email string `label:"email" validate:"required,email"`
}

type PasswordReset struct {
	Token           string `label:"token"`
	Password        string `label:"new password" validate:"required,min=8"`
	ConfirmPassword string `label:"password confirmation" validate:"required,eqfield=Password"`
}

type EmailVerificationRequest struct {
	Email string `label:"email" validate:"required,email"`
}

type EmailVerification struct {
	Token string `label:"token" validate:"required"`
}

// Validator checks forms against their struct tags.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return strings.ToLower(f.Name)
	})
	return &Validator{v: v}
}

// Validate returns nil for a valid form. A PasswordReset without a token
// fails with ErrMissingResetToken before any field is looked at.
func (fv *Validator) Validate(form any) error {
	if pr, ok := form.(PasswordReset); ok && strings.TrimSpace(pr.Token) == "" {
		return fmt.Errorf("%w: %w", ErrInvalid, ErrMissingResetToken)
	}
	if pr, ok := form.(*PasswordReset); ok && pr != nil && strings.TrimSpace(pr.Token) == "" {
		return fmt.Errorf("%w: %w", ErrInvalid, ErrMissingResetToken)
	}

	if err := fv.v.Struct(form); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "eqfield":
		return "passwords do not match"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// Problems returns the individual messages of a validation error, without
// the ErrInvalid prefix.
func Problems(err error) []string {
	if err == nil {
		return nil
	}
	msg := strings.TrimPrefix(err.Error(), ErrInvalid.Error()+": ")
	return strings.Split(msg, "; ")
}
