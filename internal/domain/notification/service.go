package notification

import (
	"context"
)

type Service interface {
	// QueueNotification hands a notification to the background workers.
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error
	QueueBulkNotification(ctx context.Context, reqs []CreateNotificationRequest) error

	GetNotifications(ctx context.Context, req ListNotificationsRequest) (NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, userID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string, notificationID string) error

	GetPreferences(ctx context.Context, userID string) ([]PreferenceResponse, error)
	UpdatePreference(ctx context.Context, userID string, req UpdatePreferenceRequest) error
	EmailEnabled(ctx context.Context, userID string, notifType NotificationType) bool

	Stop()
}
