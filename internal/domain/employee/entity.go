package employee

import (
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/geofence"
)

type Employee struct {
	ID           string
	UserID       string
	EmployeeCode string
	FullName     string
	Phone        *string
	Department   *string
	Position     *string
	WorkMode     geofence.WorkMode
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined from users
	Email string
	Role  user.Role
}

func (e Employee) IsAdmin() bool {
	return e.Role == user.RoleAdmin
}
