package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/geofence"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
)

var (
	validRoles     = []string{string(user.RoleAdmin), string(user.RoleEmployee)}
	validWorkModes = []string{string(geofence.WorkModeOffice), string(geofence.WorkModeRemote), string(geofence.WorkModeField)}
)

type CreateEmployeeRequest struct {
	EmployeeCode string  `json:"employee_code"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Phone        *string `json:"phone,omitempty"`
	Department   *string `json:"department,omitempty"`
	Position     *string `json:"position,omitempty"`
	Role         string  `json:"role"`
	WorkMode     string  `json:"work_mode"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.EmployeeCode = strings.TrimSpace(r.EmployeeCode)

	if validator.IsEmpty(r.EmployeeCode) {
		errs.Add("employee_code", "employee_code is required")
	} else if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs.Add("employee_code", "employee_code may only contain letters, numbers and hyphens (2-20 characters)")
	}

	if validator.IsEmpty(r.FullName) {
		errs.Add("full_name", "full_name is required")
	} else if len(r.FullName) > 255 {
		errs.Add("full_name", "full_name must not exceed 255 characters")
	}

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}

	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters long")
	}

	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone must contain 10-15 digits")
	}

	if r.Role == "" {
		r.Role = string(user.RoleEmployee)
	}
	validator.ValidateOptionalEnum(&errs, "role", &r.Role, validRoles)

	if r.WorkMode == "" {
		r.WorkMode = string(geofence.WorkModeOffice)
	}
	validator.ValidateOptionalEnum(&errs, "work_mode", &r.WorkMode, validWorkModes)

	return errs.Err()
}

type UpdateEmployeeRequest struct {
	ID           string  `json:"-"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	FullName     *string `json:"full_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Department   *string `json:"department,omitempty"`
	Position     *string `json:"position,omitempty"`
	Role         *string `json:"role,omitempty"`
	WorkMode     *string `json:"work_mode,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}

	if r.EmployeeCode != nil && !validator.IsValidEmployeeCode(*r.EmployeeCode) {
		errs.Add("employee_code", "employee_code may only contain letters, numbers and hyphens (2-20 characters)")
	}

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs.Add("full_name", "full_name must not be empty")
	}

	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
		if !validator.IsValidEmail(email) {
			errs.Add("email", "email must be a valid email address")
		}
	}

	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone must contain 10-15 digits")
	}

	validator.ValidateOptionalEnum(&errs, "role", r.Role, validRoles)
	validator.ValidateOptionalEnum(&errs, "work_mode", r.WorkMode, validWorkModes)

	return errs.Err()
}

// UpdateMyProfileRequest is the self-service subset of employee fields.
type UpdateMyProfileRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

func (r *UpdateMyProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName == nil && r.Phone == nil {
		errs.Add("body", "at least one of full_name or phone is required")
	}
	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs.Add("full_name", "full_name must not be empty")
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone must contain 10-15 digits")
	}

	return errs.Err()
}

type EmployeeFilter struct {
	Search     *string `json:"search,omitempty"` // name, email or employee code
	Department *string `json:"department,omitempty"`
	Role       *string `json:"role,omitempty"`
	WorkMode   *string `json:"work_mode,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"` // full_name, employee_code, department, created_at
	SortOrder string `json:"sort_order"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	validator.ValidatePagination(&errs, &f.Page, &f.Limit)
	validator.ValidateOptionalEnum(&errs, "role", f.Role, validRoles)
	validator.ValidateOptionalEnum(&errs, "work_mode", f.WorkMode, validWorkModes)
	validator.ValidateSort(&errs, &f.SortBy, &f.SortOrder, []string{"full_name", "employee_code", "department", "created_at"}, "created_at")

	return errs.Err()
}

type EmployeeResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	EmployeeCode string  `json:"employee_code"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone,omitempty"`
	Department   *string `json:"department,omitempty"`
	Position     *string `json:"position,omitempty"`
	Role         string  `json:"role"`
	WorkMode     string  `json:"work_mode"`
	IsActive     bool    `json:"is_active"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		UserID:       e.UserID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName,
		Email:        e.Email,
		Phone:        e.Phone,
		Department:   e.Department,
		Position:     e.Position,
		Role:         string(e.Role),
		WorkMode:     string(e.WorkMode),
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    e.UpdatedAt.Format(time.RFC3339),
	}
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Employees  []EmployeeResponse `json:"employees"`
}
