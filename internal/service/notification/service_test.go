package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	notification.Repository
	mu            sync.Mutex
	stored        []notification.Notification
	batches       int
	prefs         map[string]notification.NotificationPreference
	preferenceErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{prefs: map[string]notification.NotificationPreference{}}
}

func prefKey(userID string, t notification.NotificationType) string {
	return userID + "/" + string(t)
}

func (f *fakeRepo) Create(ctx context.Context, n notification.Notification) error {
	return f.CreateBatch(ctx, []notification.Notification{n})
}

func (f *fakeRepo) CreateBatch(_ context.Context, ns []notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches++
	f.stored = append(f.stored, ns...)
	return nil
}

func (f *fakeRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stored)
}

func (f *fakeRepo) ListByUser(_ context.Context, req notification.ListNotificationsRequest) ([]notification.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []notification.Notification
	for _, n := range f.stored {
		if n.RecipientID == req.UserID && (!req.UnreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) GetUnreadCount(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var c int64
	for _, n := range f.stored {
		if n.RecipientID == userID && !n.IsRead {
			c++
		}
	}
	return c, nil
}

func (f *fakeRepo) GetPreferences(_ context.Context, userID string) ([]notification.NotificationPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []notification.NotificationPreference
	for _, p := range f.prefs {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetPreference(_ context.Context, userID string, t notification.NotificationType) (*notification.NotificationPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.preferenceErr != nil {
		return nil, f.preferenceErr
	}
	p, ok := f.prefs[prefKey(userID, t)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeRepo) UpsertPreference(_ context.Context, p notification.NotificationPreference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefs[prefKey(p.UserID, p.NotificationType)] = p
	return nil
}

func request(recipient string) notification.CreateNotificationRequest {
	return notification.CreateNotificationRequest{
		RecipientID: recipient,
		Type:        notification.TypeTaskAssigned,
		Title:       "New task assigned",
		Message:     "You have been assigned a task",
	}
}

func TestQueueNotification_FlushesOnIntervalAndPublishes(t *testing.T) {
	repo := newFakeRepo()
	hub := sse.NewHub()
	svc := NewNotificationService(repo, hub, Config{FlushInterval: 20 * time.Millisecond, WorkerCount: 1})
	defer svc.Stop()

	events, unsubscribe := hub.Subscribe("user-1", false)
	defer unsubscribe()

	require.NoError(t, svc.QueueNotification(context.Background(), request("user-1")))

	select {
	case ev := <-events:
		assert.Equal(t, sse.EventNotification, ev.Event)
		resp, ok := ev.Data.(notification.NotificationResponse)
		require.True(t, ok)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, notification.TypeTaskAssigned, resp.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not published")
	}
	assert.Equal(t, 1, repo.count())
}

func TestQueueNotification_BatchSize(t *testing.T) {
	repo := newFakeRepo()
	svc := NewNotificationService(repo, sse.NewHub(), Config{BatchSize: 3, FlushInterval: time.Hour, WorkerCount: 1})
	defer svc.Stop()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.QueueNotification(context.Background(), request("user-1")))
	}

	assert.Eventually(t, func() bool { return repo.count() == 3 }, time.Second, 10*time.Millisecond)
}

func TestStop_FlushesPending(t *testing.T) {
	repo := newFakeRepo()
	svc := NewNotificationService(repo, sse.NewHub(), Config{FlushInterval: time.Hour, WorkerCount: 2})

	require.NoError(t, svc.QueueBulkNotification(context.Background(), []notification.CreateNotificationRequest{
		request("user-1"), request("user-2"),
	}))
	svc.Stop()
	svc.Stop()

	assert.Equal(t, 2, repo.count())
}

func TestQueueNotification_RespectsPushPreference(t *testing.T) {
	repo := newFakeRepo()
	svc := NewNotificationService(repo, sse.NewHub(), Config{FlushInterval: time.Hour, WorkerCount: 1})

	require.NoError(t, svc.UpdatePreference(context.Background(), "user-1", notification.UpdatePreferenceRequest{
		NotificationType: notification.TypeTaskAssigned,
		EmailEnabled:     true,
		PushEnabled:      false,
	}))
	require.NoError(t, svc.QueueNotification(context.Background(), request("user-1")))
	svc.Stop()

	assert.Zero(t, repo.count())
}

func TestQueueNotification_InvalidType(t *testing.T) {
	svc := NewNotificationService(newFakeRepo(), sse.NewHub(), Config{})
	defer svc.Stop()

	err := svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{RecipientID: "u", Type: "bogus"})
	assert.ErrorIs(t, err, notification.ErrInvalidNotificationType)
}

func TestQueueNotification_FullQueueInsertsDirectly(t *testing.T) {
	repo := newFakeRepo()
	s := &service{
		repo:   repo,
		hub:    sse.NewHub(),
		config: Config{BatchSize: 10, FlushInterval: time.Hour, WorkerCount: 0, QueueSize: 1},
		queue:  make(chan notification.CreateNotificationRequest, 1),
		stopCh: make(chan struct{}),
	}

	require.NoError(t, s.QueueNotification(context.Background(), request("user-1")))
	require.NoError(t, s.QueueNotification(context.Background(), request("user-1")))

	assert.Equal(t, 1, repo.count())
	assert.Len(t, s.queue, 1)
}

func TestDeliver_OnlyConnectedRecipients(t *testing.T) {
	hub := sse.NewHub()
	s := &service{repo: newFakeRepo(), hub: hub}

	online, unsubscribe := hub.Subscribe("user-1", false)
	defer unsubscribe()

	s.deliver([]notification.Notification{
		newNotification(request("user-2")),
		newNotification(request("user-1")),
	})

	require.Len(t, online, 1)
	ev := <-online
	assert.Equal(t, "user-1", ev.UserID)
	assert.Equal(t, 0, hub.SubscriberCount("user-2"))
}

func TestPreferences(t *testing.T) {
	repo := newFakeRepo()
	svc := NewNotificationService(repo, sse.NewHub(), Config{})
	defer svc.Stop()
	ctx := context.Background()

	assert.True(t, svc.EmailEnabled(ctx, "user-1", notification.TypeLeaveApproved))

	require.NoError(t, svc.UpdatePreference(ctx, "user-1", notification.UpdatePreferenceRequest{
		NotificationType: notification.TypeLeaveApproved,
		EmailEnabled:     false,
		PushEnabled:      true,
	}))
	assert.False(t, svc.EmailEnabled(ctx, "user-1", notification.TypeLeaveApproved))

	prefs, err := svc.GetPreferences(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, prefs, len(notification.AllNotificationTypes()))
	for _, p := range prefs {
		if p.NotificationType == notification.TypeLeaveApproved {
			assert.False(t, p.EmailEnabled)
		} else {
			assert.True(t, p.EmailEnabled)
		}
	}

	err = svc.UpdatePreference(ctx, "user-1", notification.UpdatePreferenceRequest{NotificationType: "bogus"})
	assert.Error(t, err)

	repo.preferenceErr = errors.New("db down")
	assert.True(t, svc.EmailEnabled(ctx, "user-1", notification.TypeLeaveApproved))
}

func TestGetNotifications(t *testing.T) {
	repo := newFakeRepo()
	svc := NewNotificationService(repo, sse.NewHub(), Config{FlushInterval: time.Hour, WorkerCount: 1})
	require.NoError(t, svc.QueueBulkNotification(context.Background(), []notification.CreateNotificationRequest{
		request("user-1"), request("user-1"), request("user-2"),
	}))
	svc.Stop()

	resp, err := svc.GetNotifications(context.Background(), notification.ListNotificationsRequest{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Equal(t, int64(2), resp.UnreadCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)
	assert.Len(t, resp.Notifications, 2)
}
