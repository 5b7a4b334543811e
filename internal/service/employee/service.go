package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/email"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/geofence"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/pagination"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	tx           database.Transactor
	employeeRepo employee.EmployeeRepository
	userRepo     user.UserRepository
	emailService email.EmailService
	loginURL     string
}

func NewEmployeeService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	emailService email.EmailService,
	frontendURL string,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:           tx,
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
		emailService: emailService,
		loginURL:     strings.TrimRight(frontendURL, "/") + "/login",
	}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	passwordHash := string(hash)

	var created employee.Employee
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		exists, err := s.userRepo.ExistsByEmail(txCtx, req.Email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return employee.ErrEmailExists
		}

		codeTaken, err := s.employeeRepo.ExistsByCode(txCtx, req.EmployeeCode, nil)
		if err != nil {
			return fmt.Errorf("failed to check employee code: %w", err)
		}
		if codeTaken {
			return employee.ErrEmployeeCodeExists
		}

		newUser, err := s.userRepo.Create(txCtx, user.User{
			Email:        req.Email,
			PasswordHash: &passwordHash,
			Role:         user.Role(req.Role),
		})
		if err != nil {
			if errors.Is(err, user.ErrUserEmailExists) {
				return employee.ErrEmailExists
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		emp, err := s.employeeRepo.Create(txCtx, employee.Employee{
			UserID:       newUser.ID,
			EmployeeCode: req.EmployeeCode,
			FullName:     strings.TrimSpace(req.FullName),
			Phone:        req.Phone,
			Department:   req.Department,
			Position:     req.Position,
			WorkMode:     geofence.WorkMode(req.WorkMode),
			IsActive:     true,
		})
		if err != nil {
			return err
		}

		created, err = s.employeeRepo.GetByID(txCtx, emp.ID)
		return err
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	go func() {
		if err := s.emailService.SendAccountCreated(created.Email, created.FullName, s.loginURL); err != nil {
			slog.Error("failed to send account email", "employee_id", created.ID, "error", err)
		}
	}()

	return employee.ToResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(emp), nil
}

// UpdateEmployee implements employee.EmployeeService. Email and role live on
// the login account and are updated there.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	var updated employee.Employee
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.employeeRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		if req.EmployeeCode != nil && *req.EmployeeCode != existing.EmployeeCode {
			taken, err := s.employeeRepo.ExistsByCode(txCtx, *req.EmployeeCode, &existing.ID)
			if err != nil {
				return fmt.Errorf("failed to check employee code: %w", err)
			}
			if taken {
				return employee.ErrEmployeeCodeExists
			}
		}

		if req.Email != nil && *req.Email != existing.Email {
			taken, err := s.userRepo.ExistsByEmail(txCtx, *req.Email)
			if err != nil {
				return fmt.Errorf("failed to check email: %w", err)
			}
			if taken {
				return employee.ErrEmailExists
			}
			if err := s.userRepo.UpdateEmail(txCtx, existing.UserID, *req.Email); err != nil {
				if errors.Is(err, user.ErrUserEmailExists) {
					return employee.ErrEmailExists
				}
				return fmt.Errorf("failed to update email: %w", err)
			}
		}

		if req.Role != nil && user.Role(*req.Role) != existing.Role {
			if existing.UserID == claims.UserID && user.Role(*req.Role) != user.RoleAdmin {
				return employee.ErrCannotDemoteSelf
			}
			if err := s.userRepo.UpdateRole(txCtx, existing.UserID, user.Role(*req.Role)); err != nil {
				return fmt.Errorf("failed to update role: %w", err)
			}
		}

		if err := s.employeeRepo.Update(txCtx, existing.ID, req); err != nil {
			return err
		}

		updated, err = s.employeeRepo.GetByID(txCtx, existing.ID)
		return err
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.ToResponse(updated), nil
}

// DeactivateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeactivateEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !existing.IsActive {
		return employee.EmployeeResponse{}, employee.ErrEmployeeAlreadyInactive
	}

	if err := s.employeeRepo.SetActive(ctx, id, false); err != nil {
		return employee.EmployeeResponse{}, err
	}
	existing.IsActive = false

	slog.Info("employee deactivated", "employee_id", id)
	return employee.ToResponse(existing), nil
}

// DeleteEmployee removes the login account; the profile and its history go
// with it through ON DELETE CASCADE.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	if claims.EmployeeID == id {
		return employee.ErrCannotDeleteSelf
	}

	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID == claims.UserID {
		return employee.ErrCannotDeleteSelf
	}

	if err := s.userRepo.Delete(ctx, existing.UserID); err != nil {
		return fmt.Errorf("failed to delete employee account: %w", err)
	}
	return nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, employee.ToResponse(emp))
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pagination.TotalPages(total, filter.Limit),
		Showing:    pagination.Showing(filter.Page, filter.Limit, total),
		Employees:  responses,
	}, nil
}

func (s *EmployeeServiceImpl) myEmployeeID(ctx context.Context) (string, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	if claims.EmployeeID == "" {
		return "", employee.ErrNoEmployeeProfile
	}
	return claims.EmployeeID, nil
}

// GetMyProfile implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetMyProfile(ctx context.Context) (employee.EmployeeResponse, error) {
	employeeID, err := s.myEmployeeID(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.GetEmployee(ctx, employeeID)
}

// UpdateMyProfile implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateMyProfile(ctx context.Context, req employee.UpdateMyProfileRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	employeeID, err := s.myEmployeeID(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.employeeRepo.Update(ctx, employeeID, employee.UpdateEmployeeRequest{
		ID:       employeeID,
		FullName: req.FullName,
		Phone:    req.Phone,
	}); err != nil {
		return employee.EmployeeResponse{}, err
	}

	return s.GetEmployee(ctx, employeeID)
}
