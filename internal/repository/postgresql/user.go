package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `
	u.id, u.email, u.password_hash, u.role, u.oauth_provider, u.oauth_provider_id,
	u.created_at, u.updated_at, e.id`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.OAuthProvider,
		&u.OAuthProviderID,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.EmployeeID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, user.ErrUserNotFound
	}
	return u, err
}

func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN employees e ON e.user_id = u.id
		WHERE u.email = $1`

	u, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, err
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN employees e ON e.user_id = u.id
		WHERE u.id = $1`

	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, err
}

func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (email, password_hash, role, oauth_provider, oauth_provider_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	created := newUser
	err := q.QueryRow(ctx, query,
		newUser.Email,
		newUser.PasswordHash,
		newUser.Role,
		newUser.OAuthProvider,
		newUser.OAuthProviderID,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "users_email_key") {
			return user.User{}, user.ErrUserEmailExists
		}
		if database.IsUniqueViolation(err, "users_oauth_key") {
			return user.User{}, user.ErrOAuthProviderIDExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

func (r *userRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// LinkGoogleAccount attaches a Google identity to the user with that email.
func (r *userRepositoryImpl) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH updated AS (
			UPDATE users
			SET oauth_provider = 'google', oauth_provider_id = $1, updated_at = NOW()
			WHERE email = $2
			RETURNING *
		)
		SELECT ` + userColumns + `
		FROM updated u
		LEFT JOIN employees e ON e.user_id = u.id`

	u, err := scanUser(q.QueryRow(ctx, query, googleID, email))
	if err != nil {
		if database.IsUniqueViolation(err, "users_oauth_key") {
			return user.User{}, user.ErrOAuthProviderIDExists
		}
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("failed to link google account: %w", err)
	}
	return u, nil
}

func (r *userRepositoryImpl) UpdateRole(ctx context.Context, userID string, role user.Role) error {
	return r.exec(ctx, "role", `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role, userID)
}

func (r *userRepositoryImpl) UpdateEmail(ctx context.Context, userID string, email string) error {
	err := r.exec(ctx, "email", `UPDATE users SET email = $1, updated_at = NOW() WHERE id = $2`, email, userID)
	if database.IsUniqueViolation(err, "users_email_key") {
		return user.ErrUserEmailExists
	}
	return err
}

func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return r.exec(ctx, "password", `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, userID)
}

func (r *userRepositoryImpl) Delete(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *userRepositoryImpl) exec(ctx context.Context, field, query string, args ...any) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return err
		}
		return fmt.Errorf("failed to update user %s: %w", field, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
