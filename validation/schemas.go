// Package validation rejects structurally invalid payloads before they
// reach business logic. Failures are field-addressable so callers can
// surface per-field errors, never a single opaque string.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FieldViolation names one constraint a payload broke.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations is a non-empty list of field violations. It implements
// error so services can pass it up unchanged.
type Violations []FieldViolation

func (v Violations) Error() string {
	parts := make([]string, len(v))
	for i, fv := range v {
		parts[i] = fv.Field + " " + fv.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// SignupRequest is the account creation payload. The password
// confirmation mismatch is reported on the confirmation field, not on
// the password itself.
type SignupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required,min=3,max=30,username_charset"`
	Password        string `json:"password" validate:"required,min=8,max=128,password_composition"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginRequest is the credential check payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ComposeRequest is an outbound send. At least one of the two bodies
// must be present.
type ComposeRequest struct {
	To       []string `json:"to" validate:"required,min=1,max=50,dive,required,email"`
	Subject  string   `json:"subject" validate:"required,max=998"`
	TextBody string   `json:"text" validate:"required_without=HTMLBody"`
	HTMLBody string   `json:"html" validate:"required_without=TextBody"`
}

// InboundEmail is the delivery webhook payload shape.
type InboundEmail struct {
	From     string `json:"from" validate:"required,email"`
	FromName string `json:"fromName" validate:"omitempty,max=256"`
	To       string `json:"to" validate:"required,email"`
	Subject  string `json:"subject" validate:"max=998"`
	TextBody string `json:"text" validate:"omitempty"`
	HTMLBody string `json:"html" validate:"omitempty"`
}

// BetaRedeemRequest carries a beta-access code.
type BetaRedeemRequest struct {
	Code string `json:"code" validate:"required,min=4,max=64"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Violations are reported under the wire name, not the Go name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("password_composition", passwordComposition)
	_ = v.RegisterValidation("username_charset", usernameCharset)
	return v
}

// Check validates a payload struct and returns nil when it is clean.
func Check(payload any) Violations {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Violations{{Field: "", Message: err.Error()}}
	}

	out := make(Violations, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, FieldViolation{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return "is required when " + strings.ToLower(fe.Param()) + " is absent"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "eqfield":
		return "must match " + strings.ToLower(fe.Param())
	case "password_composition":
		return "must contain an uppercase letter, a lowercase letter and a digit"
	case "username_charset":
		return "may only contain letters, digits, dots, hyphens and underscores"
	default:
		return fmt.Sprintf("failed the %s constraint", fe.Tag())
	}
}

// passwordComposition enforces the character-class rules; the length
// bounds live in the min/max tags next to it.
func passwordComposition(fl validator.FieldLevel) bool {
	var hasUpper, hasLower, hasDigit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

func usernameCharset(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
		case r == '.', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
