package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/auth"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/geofence"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	tx database.Transactor
	user.UserRepository
	employee.EmployeeRepository
	jwt.Service
	auth.RefreshTokenRepository
}

func NewAuthService(
	tx database.Transactor,
	userRepository user.UserRepository,
	employeeRepository employee.EmployeeRepository,
	jwtService jwt.Service,
	refreshTokenRepository auth.RefreshTokenRepository,
) auth.AuthService {
	return &AuthServiceImpl{
		tx:                     tx,
		UserRepository:         userRepository,
		EmployeeRepository:     employeeRepository,
		Service:                jwtService,
		RefreshTokenRepository: refreshTokenRepository,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// issueTokens signs an access/refresh pair and stores the refresh token.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, u user.User, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse
	var err error

	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(u.ID, u.Email, u.EmployeeID, u.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	err = a.RefreshTokenRepository.CreateRefreshToken(ctx, u.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, session)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}

	return tokenResponse, nil
}

// ensureActive rejects users whose employee profile was deactivated.
func (a *AuthServiceImpl) ensureActive(ctx context.Context, u user.User) error {
	if u.EmployeeID == nil {
		return nil
	}
	emp, err := a.EmployeeRepository.GetByID(ctx, *u.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive {
		return auth.ErrAccountInactive
	}
	return nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var tokenResponse auth.TokenResponse
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		exists, err := a.UserRepository.ExistsByEmail(txCtx, req.Email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return auth.ErrEmailAlreadyExists
		}

		codeTaken, err := a.EmployeeRepository.ExistsByCode(txCtx, req.EmployeeCode, nil)
		if err != nil {
			return fmt.Errorf("failed to check employee code: %w", err)
		}
		if codeTaken {
			return employee.ErrEmployeeCodeExists
		}

		newUser, err := a.UserRepository.Create(txCtx, user.User{
			Email:        req.Email,
			PasswordHash: &hashedPassword,
			Role:         user.RoleEmployee,
		})
		if err != nil {
			if errors.Is(err, user.ErrUserEmailExists) {
				return auth.ErrEmailAlreadyExists
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		newEmployee, err := a.EmployeeRepository.Create(txCtx, employee.Employee{
			UserID:       newUser.ID,
			EmployeeCode: req.EmployeeCode,
			FullName:     strings.TrimSpace(req.FullName),
			Phone:        req.Phone,
			WorkMode:     geofence.WorkModeOffice,
			IsActive:     true,
		})
		if err != nil {
			return err
		}
		newUser.EmployeeID = &newEmployee.ID

		tokenResponse, err = a.issueTokens(txCtx, newUser, session)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Google-only accounts have no password
	if userData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if err := a.ensureActive(ctx, userData); err != nil {
		return auth.TokenResponse{}, err
	}

	return a.issueTokens(ctx, userData, session)
}

// LoginWithGoogle signs in an existing account by its verified Google email,
// linking the Google id on first use. Unknown emails are rejected.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, email string, googleID string, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	userData, err := a.UserRepository.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user data by email: %w", err)
	}

	switch {
	case userData.OAuthProviderID == nil:
		employeeID := userData.EmployeeID
		userData, err = a.UserRepository.LinkGoogleAccount(ctx, googleID, userData.Email)
		if err != nil {
			if errors.Is(err, user.ErrOAuthProviderIDExists) {
				return auth.TokenResponse{}, auth.ErrGoogleAccountLinked
			}
			return auth.TokenResponse{}, fmt.Errorf("failed to link google account: %w", err)
		}
		if userData.EmployeeID == nil {
			userData.EmployeeID = employeeID
		}
	case *userData.OAuthProviderID != googleID:
		return auth.TokenResponse{}, auth.ErrGoogleAccountLinked
	}

	if err := a.ensureActive(ctx, userData); err != nil {
		return auth.TokenResponse{}, err
	}

	return a.issueTokens(ctx, userData, session)
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	return a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		_, isRevoked, err := a.RefreshTokenRepository.IsRefreshTokenRevoked(txCtx, refreshToken)
		if err != nil {
			return fmt.Errorf("failed to check if refresh token is revoked: %w", err)
		}
		if !isRevoked {
			if err := a.RefreshTokenRepository.RevokeRefreshToken(txCtx, refreshToken); err != nil {
				return fmt.Errorf("failed to revoke refresh token: %w", err)
			}
		}
		return nil
	})
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	var accessTokenResponse auth.AccessTokenResponse

	// 1. Signature, expiry and token type
	tokenUserID, err := a.Service.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 2. Revocation state in the database
	userID, isRevoked, err := a.RefreshTokenRepository.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if isRevoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}
	if userID != tokenUserID {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 3. Current role and profile, so role changes apply on refresh
	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrUserNotFound
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	if err := a.ensureActive(ctx, userData); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	accessTokenResponse.AccessToken, accessTokenResponse.AccessTokenExpiresIn, err =
		a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.EmployeeID, userData.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessTokenResponse, nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context) (auth.MeResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return auth.MeResponse{}, auth.ErrInvalidToken
	}

	userData, err := a.UserRepository.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.MeResponse{}, auth.ErrUserNotFound
		}
		return auth.MeResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	resp := auth.MeResponse{User: user.ToResponse(userData)}
	if userData.EmployeeID != nil {
		emp, err := a.EmployeeRepository.GetByID(ctx, *userData.EmployeeID)
		if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.MeResponse{}, fmt.Errorf("failed to get employee: %w", err)
		}
		if err == nil {
			empResp := employee.ToResponse(emp)
			resp.Employee = &empResp
		}
	}

	return resp, nil
}

// BootstrapAdmin implements auth.AuthService.
func (a *AuthServiceImpl) BootstrapAdmin(ctx context.Context, email, password, fullName string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	exists, err := a.UserRepository.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check admin email: %w", err)
	}
	if exists {
		return nil
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if strings.TrimSpace(fullName) == "" {
		fullName = "Administrator"
	}

	return a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		admin, err := a.UserRepository.Create(txCtx, user.User{
			Email:        email,
			PasswordHash: &hashedPassword,
			Role:         user.RoleAdmin,
		})
		if err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		_, err = a.EmployeeRepository.Create(txCtx, employee.Employee{
			UserID:       admin.ID,
			EmployeeCode: "ADM-" + strings.ToUpper(strings.ReplaceAll(admin.ID, "-", "")[:8]),
			FullName:     fullName,
			WorkMode:     geofence.WorkModeOffice,
			IsActive:     true,
		})
		if err != nil {
			return fmt.Errorf("failed to create admin profile: %w", err)
		}

		slog.Info("bootstrap administrator created", "email", email)
		return nil
	})
}
