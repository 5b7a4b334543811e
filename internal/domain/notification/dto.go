package notification

import (
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
)

// CreateNotificationRequest is what other services hand to the queue.
type CreateNotificationRequest struct {
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]any
}

type MarkAsReadRequest struct {
	NotificationIDs []string `json:"notification_ids"`
}

func (r *MarkAsReadRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.NotificationIDs) == 0 {
		errs.Add("notification_ids", "notification_ids must contain at least one id")
	}
	for _, id := range r.NotificationIDs {
		if !validator.IsValidUUID(id) {
			errs.Add("notification_ids", "notification_ids must contain valid UUIDs")
			break
		}
	}

	return errs.Err()
}

type UpdatePreferenceRequest struct {
	NotificationType NotificationType `json:"notification_type"`
	EmailEnabled     bool             `json:"email_enabled"`
	PushEnabled      bool             `json:"push_enabled"`
}

func (r *UpdatePreferenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.NotificationType.IsValid() {
		errs.Add("notification_type", ErrInvalidNotificationType.Error())
	}

	return errs.Err()
}

type ListNotificationsRequest struct {
	UserID     string `json:"-"`
	UnreadOnly bool   `json:"unread_only"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

func (r *ListNotificationsRequest) Validate() error {
	var errs validator.ValidationErrors
	validator.ValidatePagination(&errs, &r.Page, &r.Limit)
	return errs.Err()
}

type NotificationResponse struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Data      map[string]any   `json:"data,omitempty"`
	IsRead    bool             `json:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func ToResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

type NotificationListResponse struct {
	TotalCount    int64                  `json:"total_count"`
	UnreadCount   int64                  `json:"unread_count"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	TotalPages    int                    `json:"total_pages"`
	Showing       string                 `json:"showing"`
	Notifications []NotificationResponse `json:"notifications"`
}

type PreferenceResponse struct {
	NotificationType NotificationType `json:"notification_type"`
	EmailEnabled     bool             `json:"email_enabled"`
	PushEnabled      bool             `json:"push_enabled"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
