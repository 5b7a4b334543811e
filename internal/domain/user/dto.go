package user

import "time"

// UserResponse represents user data in API responses
type UserResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	Role          string  `json:"role"`
	EmployeeID    *string `json:"employee_id,omitempty"`
	OAuthProvider *string `json:"oauth_provider,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Role:          string(u.Role),
		EmployeeID:    u.EmployeeID,
		OAuthProvider: u.OAuthProvider,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     u.UpdatedAt.Format(time.RFC3339),
	}
}
