package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// CreateEmployee creates the login account and the profile (admin only)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeactivateEmployee blocks attendance and login without removing history
	DeactivateEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// DeleteEmployee removes the employee and their login (admin only, never self)
	DeleteEmployee(ctx context.Context, id string) error

	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	GetMyProfile(ctx context.Context) (EmployeeResponse, error)
	UpdateMyProfile(ctx context.Context, req UpdateMyProfileRequest) (EmployeeResponse, error)
}
