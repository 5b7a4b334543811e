package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	LinkGoogleAccount(ctx context.Context, googleID string, email string) (User, error)
	UpdateRole(ctx context.Context, userID string, role Role) error
	UpdateEmail(ctx context.Context, userID string, email string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	Delete(ctx context.Context, userID string) error
}
