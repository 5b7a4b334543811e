package auth

import (
	"strings"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
)

// RegisterRequest is the employee self sign-up.
type RegisterRequest struct {
	FullName        string  `json:"full_name"`
	EmployeeCode    string  `json:"employee_code"`
	Email           string  `json:"email"`
	Phone           *string `json:"phone,omitempty"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.EmployeeCode = strings.TrimSpace(r.EmployeeCode)

	if validator.IsEmpty(r.FullName) {
		errs.Add("full_name", "full_name is required")
	} else if len(r.FullName) > 255 {
		errs.Add("full_name", "full_name must not exceed 255 characters")
	}

	if validator.IsEmpty(r.EmployeeCode) {
		errs.Add("employee_code", "employee_code is required")
	} else if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs.Add("employee_code", "employee_code may only contain letters, numbers and hyphens (2-20 characters)")
	}

	validateEmail(&errs, r.Email)
	validatePassword(&errs, r.Password)

	if validator.IsEmpty(r.ConfirmPassword) {
		errs.Add("confirm_password", "confirm_password is required")
	} else if r.ConfirmPassword != r.Password {
		errs.Add("confirm_password", "password and confirm_password do not match")
	}

	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone must contain 10-15 digits")
	}

	return errs.Err()
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	validateEmail(&errs, r.Email)

	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if len(r.Password) > 255 {
		errs.Add("password", "password must not exceed 255 characters")
	}

	return errs.Err()
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RefreshToken) {
		errs.Add("refresh_token", "refresh_token is required")
	} else if len(r.RefreshToken) > 1024 {
		errs.Add("refresh_token", "refresh_token must not exceed 1024 characters")
	}

	return errs.Err()
}

func validateEmail(errs *validator.ValidationErrors, email string) {
	switch {
	case validator.IsEmpty(email):
		errs.Add("email", "email is required")
	case len(email) > 254:
		errs.Add("email", "email must not exceed 254 characters")
	case !validator.IsValidEmail(email):
		errs.Add("email", "email must be a valid email address, e.g. user@example.com")
	}
}

func validatePassword(errs *validator.ValidationErrors, password string) {
	switch {
	case validator.IsEmpty(password):
		errs.Add("password", "password is required")
	case len(password) < 8:
		errs.Add("password", "password must be at least 8 characters long")
	case len(password) > 72:
		errs.Add("password", "password must not exceed 72 characters")
	}
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}

// MeResponse is the signed-in user with their employee profile.
type MeResponse struct {
	User     user.UserResponse          `json:"user"`
	Employee *employee.EmployeeResponse `json:"employee,omitempty"`
}
