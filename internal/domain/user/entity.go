package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // HR administrator - reviews and approves
	RoleEmployee Role = "employee" // Regular employee
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type User struct {
	ID              string
	Email           string
	PasswordHash    *string
	Role            Role
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Join
	EmployeeID *string
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanApprove checks if user can approve requests
func (u *User) CanApprove() bool {
	return u.IsAdmin()
}
