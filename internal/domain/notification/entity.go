package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeAttendanceCheckIn  NotificationType = "attendance_check_in"
	TypeAttendanceCheckOut NotificationType = "attendance_check_out"
	TypeAttendanceMarked   NotificationType = "attendance_marked"
	TypeLeaveRequest       NotificationType = "leave_request"
	TypeLeaveApproved      NotificationType = "leave_approved"
	TypeLeaveRejected      NotificationType = "leave_rejected"
	TypeTaskAssigned       NotificationType = "task_assigned"
	TypeTaskCompleted      NotificationType = "task_completed"
	TypeTaskAccepted       NotificationType = "task_accepted"
	TypeTaskRejected       NotificationType = "task_rejected"
	TypeTaskShelved        NotificationType = "task_shelved"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeAttendanceCheckIn,
		TypeAttendanceCheckOut,
		TypeAttendanceMarked,
		TypeLeaveRequest,
		TypeLeaveApproved,
		TypeLeaveRejected,
		TypeTaskAssigned,
		TypeTaskCompleted,
		TypeTaskAccepted,
		TypeTaskRejected,
		TypeTaskShelved,
	}
}

func (t NotificationType) IsValid() bool {
	for _, v := range AllNotificationTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// Notification is an in-app message addressed to one user.
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]any
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

// NotificationPreference toggles delivery channels per type. Missing rows mean enabled.
type NotificationPreference struct {
	UserID           string
	NotificationType NotificationType
	EmailEnabled     bool
	PushEnabled      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
