package notification

import "errors"

var (
	ErrNotificationNotFound    = errors.New("notification not found")
	ErrInvalidNotificationType = errors.New("invalid notification type")
	ErrQueueFull               = errors.New("notification queue is full")
)
