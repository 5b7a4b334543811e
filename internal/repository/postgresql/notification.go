package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, recipient_id, sender_id, type, title, message, data, is_read, read_at, created_at`

func scanNotification(row pgx.Row) (notification.Notification, error) {
	var n notification.Notification
	var dataJSON []byte
	var notifType string

	if err := row.Scan(
		&n.ID,
		&n.RecipientID,
		&n.SenderID,
		&notifType,
		&n.Title,
		&n.Message,
		&dataJSON,
		&n.IsRead,
		&n.ReadAt,
		&n.CreatedAt,
	); err != nil {
		return n, err
	}

	n.Type = notification.NotificationType(notifType)
	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &n.Data); err != nil {
			return n, fmt.Errorf("failed to unmarshal notification data: %w", err)
		}
	}
	return n, nil
}

func notificationArgs(n *notification.Notification) ([]any, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	data := n.Data
	if data == nil {
		data = map[string]any{}
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification data: %w", err)
	}
	return []any{
		n.ID,
		n.RecipientID,
		n.SenderID,
		string(n.Type),
		n.Title,
		n.Message,
		dataJSON,
		n.IsRead,
		n.CreatedAt,
	}, nil
}

// Create creates a new notification
func (r *notificationRepository) Create(ctx context.Context, n notification.Notification) error {
	return r.CreateBatch(ctx, []notification.Notification{n})
}

// CreateBatch inserts all notifications with a single statement
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	const perRow = 9
	valueStrings := make([]string, 0, len(notifications))
	valueArgs := make([]any, 0, len(notifications)*perRow)

	for i := range notifications {
		args, err := notificationArgs(&notifications[i])
		if err != nil {
			return err
		}

		base := i * perRow
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9,
		))
		valueArgs = append(valueArgs, args...)
	}

	query := fmt.Sprintf(`
		INSERT INTO notifications (id, recipient_id, sender_id, type, title, message, data, is_read, created_at)
		VALUES %s
	`, strings.Join(valueStrings, ", "))

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to batch create notifications: %w", err)
	}

	return nil
}

// ListByUser returns one page of the user's notifications, newest first
func (r *notificationRepository) ListByUser(ctx context.Context, req notification.ListNotificationsRequest) ([]notification.Notification, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "recipient_id = $1"
	if req.UnreadOnly {
		whereClause += " AND is_read = FALSE"
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM notifications WHERE %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, req.UserID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM notifications
		WHERE %s
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`, notificationColumns, whereClause)

	rows, err := q.Query(ctx, query, req.UserID, req.Limit, pagination.Offset(req.Page, req.Limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []notification.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return notifications, total, nil
}

// GetUnreadCount returns the count of unread notifications for a user
func (r *notificationRepository) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`
	if err := q.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// MarkAsRead marks the given notifications as read. Ids owned by other users are ignored.
func (r *notificationRepository) MarkAsRead(ctx context.Context, ids []string, userID string) error {
	if len(ids) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = $1
		WHERE recipient_id = $2 AND id = ANY($3::uuid[]) AND is_read = FALSE
	`

	if _, err := q.Exec(ctx, query, time.Now(), userID, ids); err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	return nil
}

// MarkAllAsRead marks all notifications as read for a user
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = $1
		WHERE recipient_id = $2 AND is_read = FALSE
	`

	if _, err := q.Exec(ctx, query, time.Now(), userID); err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	return nil
}

// Delete deletes a notification owned by userID
func (r *notificationRepository) Delete(ctx context.Context, id string, userID string) error {
	q := GetQuerier(ctx, r.db)

	result, err := q.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if result.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}

	return nil
}

// ============= Preferences =============

const preferenceColumns = `user_id, notification_type, email_enabled, push_enabled, created_at, updated_at`

func scanPreference(row pgx.Row) (notification.NotificationPreference, error) {
	var p notification.NotificationPreference
	var notifType string
	err := row.Scan(
		&p.UserID,
		&notifType,
		&p.EmailEnabled,
		&p.PushEnabled,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	p.NotificationType = notification.NotificationType(notifType)
	return p, err
}

// GetPreferences retrieves the stored notification preferences for a user
func (r *notificationRepository) GetPreferences(ctx context.Context, userID string) ([]notification.NotificationPreference, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM notification_preferences WHERE user_id = $1 ORDER BY notification_type`, preferenceColumns)
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	prefs := []notification.NotificationPreference{}
	for rows.Next() {
		p, err := scanPreference(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs = append(prefs, p)
	}

	return prefs, rows.Err()
}

func (r *notificationRepository) GetPreference(ctx context.Context, userID string, notifType notification.NotificationType) (*notification.NotificationPreference, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM notification_preferences WHERE user_id = $1 AND notification_type = $2`, preferenceColumns)
	p, err := scanPreference(q.QueryRow(ctx, query, userID, string(notifType)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}

	return &p, nil
}

// UpsertPreference creates or updates a notification preference
func (r *notificationRepository) UpsertPreference(ctx context.Context, pref notification.NotificationPreference) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notification_preferences (user_id, notification_type, email_enabled, push_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, notification_type)
		DO UPDATE SET email_enabled = EXCLUDED.email_enabled, push_enabled = EXCLUDED.push_enabled, updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query,
		pref.UserID,
		string(pref.NotificationType),
		pref.EmailEnabled,
		pref.PushEnabled,
	); err != nil {
		return fmt.Errorf("failed to upsert preference: %w", err)
	}

	return nil
}
