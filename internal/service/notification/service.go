package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	hub    *sse.Hub
	config Config

	queue    chan notification.CreateNotificationRequest
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewNotificationService creates a new notification service with background workers
func NewNotificationService(repo notification.Repository, hub *sse.Hub, cfg Config) notification.Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		hub:    hub,
		config: cfg,
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Notification service started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval.String(),
	)

	return s
}

func newNotification(req notification.CreateNotificationRequest) notification.Notification {
	return notification.Notification{
		ID:          uuid.New().String(),
		RecipientID: req.RecipientID,
		SenderID:    req.SenderID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
		CreatedAt:   time.Now().UTC(),
	}
}

// deliver pushes stored notifications to connected browsers. Offline
// recipients pick them up from the list endpoint.
func (s *service) deliver(notifications []notification.Notification) {
	for _, n := range notifications {
		if s.hub.SubscriberCount(n.RecipientID) == 0 {
			continue
		}
		s.hub.Publish(n.RecipientID, sse.Event{
			UserID: n.RecipientID,
			Event:  sse.EventNotification,
			Data:   notification.ToResponse(n),
		})
	}
}

// worker drains the queue, inserting in batches of BatchSize or every FlushInterval.
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		notifications := make([]notification.Notification, len(batch))
		for i, req := range batch {
			notifications[i] = newNotification(req)
		}

		if err := s.repo.CreateBatch(ctx, notifications); err != nil {
			slog.Error("Failed to insert notification batch", "worker", id, "count", len(notifications), "error", err)
		} else {
			slog.Debug("Inserted notification batch", "worker", id, "count", len(notifications))
			s.deliver(notifications)
		}

		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// drain what is already queued before exiting
			for {
				select {
				case req := <-s.queue:
					batch = append(batch, req)
					if len(batch) >= s.config.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// pushEnabled reports whether the recipient wants in-app notifications of this type.
func (s *service) pushEnabled(ctx context.Context, userID string, notifType notification.NotificationType) (bool, error) {
	pref, err := s.repo.GetPreference(ctx, userID, notifType)
	if err != nil {
		return false, err
	}
	return pref == nil || pref.PushEnabled, nil
}

// QueueNotification queues a notification for async processing
func (s *service) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	if !req.Type.IsValid() {
		return notification.ErrInvalidNotificationType
	}

	enabled, err := s.pushEnabled(ctx, req.RecipientID, req.Type)
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}

	select {
	case <-s.stopCh:
		return s.directInsert(ctx, req)
	default:
	}

	select {
	case s.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Queue full, insert synchronously
		slog.Warn("Notification queue full, inserting directly", "recipient_id", req.RecipientID)
		return s.directInsert(ctx, req)
	}
}

// QueueBulkNotification queues multiple notifications for async processing
func (s *service) QueueBulkNotification(ctx context.Context, reqs []notification.CreateNotificationRequest) error {
	for _, req := range reqs {
		if err := s.QueueNotification(ctx, req); err != nil {
			slog.Error("Failed to queue notification", "recipient_id", req.RecipientID, "type", req.Type, "error", err)
		}
	}
	return nil
}

func (s *service) directInsert(ctx context.Context, req notification.CreateNotificationRequest) error {
	n := newNotification(req)
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.deliver([]notification.Notification{n})
	return nil
}

// GetNotifications retrieves paginated notifications for a user
func (s *service) GetNotifications(ctx context.Context, req notification.ListNotificationsRequest) (notification.NotificationListResponse, error) {
	if err := req.Validate(); err != nil {
		return notification.NotificationListResponse{}, err
	}

	notifications, total, err := s.repo.ListByUser(ctx, req)
	if err != nil {
		return notification.NotificationListResponse{}, err
	}

	unreadCount, err := s.repo.GetUnreadCount(ctx, req.UserID)
	if err != nil {
		return notification.NotificationListResponse{}, err
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = notification.ToResponse(n)
	}

	return notification.NotificationListResponse{
		TotalCount:    total,
		UnreadCount:   unreadCount,
		Page:          req.Page,
		Limit:         req.Limit,
		TotalPages:    pagination.TotalPages(total, req.Limit),
		Showing:       pagination.Showing(req.Page, req.Limit, total),
		Notifications: responses,
	}, nil
}

func (s *service) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *service) MarkAsRead(ctx context.Context, userID string, req notification.MarkAsReadRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, req.NotificationIDs, userID)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID string, notificationID string) error {
	return s.repo.Delete(ctx, notificationID, userID)
}

// GetPreferences lists every notification type, filling in the enabled
// default for types the user never changed.
func (s *service) GetPreferences(ctx context.Context, userID string) ([]notification.PreferenceResponse, error) {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefMap := make(map[notification.NotificationType]notification.NotificationPreference, len(prefs))
	for _, p := range prefs {
		prefMap[p.NotificationType] = p
	}

	allTypes := notification.AllNotificationTypes()
	responses := make([]notification.PreferenceResponse, len(allTypes))
	for i, t := range allTypes {
		responses[i] = notification.PreferenceResponse{
			NotificationType: t,
			EmailEnabled:     true,
			PushEnabled:      true,
		}
		if p, ok := prefMap[t]; ok {
			responses[i].EmailEnabled = p.EmailEnabled
			responses[i].PushEnabled = p.PushEnabled
		}
	}

	return responses, nil
}

func (s *service) UpdatePreference(ctx context.Context, userID string, req notification.UpdatePreferenceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.repo.UpsertPreference(ctx, notification.NotificationPreference{
		UserID:           userID,
		NotificationType: req.NotificationType,
		EmailEnabled:     req.EmailEnabled,
		PushEnabled:      req.PushEnabled,
		UpdatedAt:        time.Now(),
	})
}

// EmailEnabled defaults to true when the user has no stored preference or
// the lookup fails.
func (s *service) EmailEnabled(ctx context.Context, userID string, notifType notification.NotificationType) bool {
	pref, err := s.repo.GetPreference(ctx, userID, notifType)
	if err != nil {
		slog.Warn("Failed to read notification preference", "user_id", userID, "type", notifType, "error", err)
		return true
	}
	return pref == nil || pref.EmailEnabled
}

// Stop flushes pending notifications and waits for the workers to exit.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("Notification service stopped")
	})
}
