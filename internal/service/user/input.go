package user

import (
	"strings"

	"github.com/osanchezal/sgc-backend/internal/domain"
)

const minPasswordLen = 8

// LoginInput holds parameters for the login operation.
type LoginInput struct {
	Email    string
	Password string
}

// Validate validates the login input.
func (i LoginInput) Validate() error {
	var errs []domain.FieldError

	if err := validateEmail(i.Email); err != "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: err})
	}
	if i.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CreateUserInput holds parameters for account provisioning.
type CreateUserInput struct {
	Email    string
	Name     string
	Role     domain.Role
	Password string
}

// Validate validates the create user input.
func (i CreateUserInput) Validate() error {
	var errs []domain.FieldError

	if err := validateEmail(i.Email); err != "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: err})
	}
	if i.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(i.Name) > 255 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long"})
	}
	if !i.Role.Valid() {
		errs = append(errs, domain.FieldError{Field: "role", Message: "must be 'user' or 'admin'"})
	}
	if err := validatePassword(i.Password); err != "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: err})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ResetPasswordInput holds parameters for the password reset operation.
type ResetPasswordInput struct {
	Email    string
	Password string
}

// Validate validates the reset password input.
func (i ResetPasswordInput) Validate() error {
	var errs []domain.FieldError

	if err := validateEmail(i.Email); err != "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: err})
	}
	if err := validatePassword(i.Password); err != "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: err})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validateEmail(email string) string {
	switch {
	case email == "":
		return "required"
	case len(email) > 255:
		return "too long"
	case !strings.Contains(email, "@"):
		return "invalid format"
	}
	return ""
}

func validatePassword(password string) string {
	switch {
	case password == "":
		return "required"
	case len(password) < minPasswordLen:
		return "must be at least 8 characters"
	case len(password) > 72: // bcrypt input limit
		return "too long"
	}
	return ""
}
