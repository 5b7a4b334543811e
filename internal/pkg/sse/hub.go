package sse

import (
	"sync"
)

// Event is pushed to connected browsers. Event names the SSE "event:" field.
type Event struct {
	UserID string
	Event  string
	Data   interface{}
}

// Event names
const (
	EventNotification      = "notification"
	EventAttendanceUpdated = "attendance.updated"
	EventLeaveUpdated      = "leave.updated"
	EventTaskUpdated       = "task.updated"
)

type subscriber struct {
	userID string
	admin  bool
}

// Hub fans events out to per-user channels. Admin connections additionally
// receive events published with PublishToAdmins, which keeps the admin
// dashboards current without polling.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]subscriber
	byUser      map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan Event]subscriber),
		byUser:      make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a connection and returns its channel and a cleanup func.
func (h *Hub) Subscribe(userID string, admin bool) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)
	h.subscribers[ch] = subscriber{userID: userID, admin: admin}
	if h.byUser[userID] == nil {
		h.byUser[userID] = make(map[chan Event]struct{})
	}
	h.byUser[userID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers, ch)
			delete(h.byUser[userID], ch)
			if len(h.byUser[userID]) == 0 {
				delete(h.byUser, userID)
			}
			close(ch)
		})
	}

	return ch, cleanup
}

// Publish sends an event to every connection of one user. Full channels are
// skipped so a slow reader never blocks the publisher.
func (h *Hub) Publish(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.UserID = userID
	for ch := range h.byUser[userID] {
		send(ch, event)
	}
}

// PublishToAdmins sends an event to every admin connection.
func (h *Hub) PublishToAdmins(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch, sub := range h.subscribers {
		if sub.admin {
			e := event
			e.UserID = sub.userID
			send(ch, e)
		}
	}
}

func send(ch chan Event, event Event) {
	select {
	case ch <- event:
	default:
	}
}

// SubscriberCount returns the number of active connections for a user
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID])
}

// TotalSubscribers returns the number of active connections
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
