package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToUser(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("u1", false)
	defer cleanup()

	hub.Publish("u1", Event{Event: EventNotification, Data: "hi"})
	hub.Publish("u2", Event{Event: EventNotification, Data: "other"})

	got := <-ch
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "hi", got.Data)
	assert.Len(t, ch, 0)
}

func TestHub_PublishToAdmins(t *testing.T) {
	hub := NewHub()
	adminCh, cleanupAdmin := hub.Subscribe("admin", true)
	defer cleanupAdmin()
	empCh, cleanupEmp := hub.Subscribe("emp", false)
	defer cleanupEmp()

	hub.PublishToAdmins(Event{Event: EventLeaveUpdated})

	require.Len(t, adminCh, 1)
	assert.Equal(t, "admin", (<-adminCh).UserID)
	assert.Len(t, empCh, 0)
}

func TestHub_FullChannelDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("u1", false)
	defer cleanup()

	for i := 0; i < 25; i++ {
		hub.Publish("u1", Event{Event: EventTaskUpdated})
	}
	assert.Len(t, ch, 10)
}

func TestHub_Cleanup(t *testing.T) {
	hub := NewHub()
	_, c1 := hub.Subscribe("u1", false)
	_, c2 := hub.Subscribe("u1", true)
	assert.Equal(t, 2, hub.SubscriberCount("u1"))
	assert.Equal(t, 2, hub.TotalSubscribers())

	c1()
	c1()
	assert.Equal(t, 1, hub.SubscriberCount("u1"))
	c2()
	assert.Equal(t, 0, hub.TotalSubscribers())

	hub.Publish("u1", Event{})
}
