package validation

import (
	"regexp"
	"strings"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/request"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateRegister validates an account creation request.
//
// Required fields:
//   - name: non-blank
//   - email: must look like an address
//   - password: at least MinPasswordLength characters
//   - confirmPassword: must equal password
func ValidateRegister(req request.RegisterRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	if strings.TrimSpace(req.Email) == "" {
		errors["email"] = "email is required"
	} else if !emailPattern.MatchString(req.Email) {
		errors["email"] = "invalid email format"
	}

	if req.Password == "" {
		errors["password"] = "password is required"
	} else if len(req.Password) < MinPasswordLength {
		errors["password"] = "password must be at least 8 characters"
	}

	if req.ConfirmPassword == "" {
		errors["confirmPassword"] = "confirmPassword is required"
	} else if req.Password != req.ConfirmPassword {
		errors["confirmPassword"] = "passwords do not match"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateLogin checks that both credentials are present.
func ValidateLogin(req request.LoginRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Email) == "" {
		errors["email"] = "email is required"
	}
	if req.Password == "" {
		errors["password"] = "password is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
