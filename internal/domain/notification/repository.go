package notification

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, n Notification) error
	CreateBatch(ctx context.Context, notifications []Notification) error
	ListByUser(ctx context.Context, req ListNotificationsRequest) ([]Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, ids []string, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string, userID string) error

	GetPreferences(ctx context.Context, userID string) ([]NotificationPreference, error)
	UpsertPreference(ctx context.Context, pref NotificationPreference) error
	// GetPreference returns nil when the user never changed the default.
	GetPreference(ctx context.Context, userID string, notifType NotificationType) (*NotificationPreference, error)
}
