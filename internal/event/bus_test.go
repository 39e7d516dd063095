package event

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techradar-api/internal/model"
)

func TestBusDeliversToEverySubscriber(t *testing.T) {
	bus := NewBus(nil)
	first, unsubFirst := bus.Subscribe()
	second, unsubSecond := bus.Subscribe()
	defer unsubFirst()
	defer unsubSecond()

	e := New(TypeLikeAdded, model.AuditActor{UserID: 7}, "technology/42", nil)
	bus.Publish(e)

	got := <-first
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, TypeLikeAdded, got.Type)
	assert.Equal(t, int64(7), got.Actor.UserID)

	got = <-second
	assert.Equal(t, e.ID, got.ID)
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus(nil)
	ch, unsubscribe := bus.Subscribe()

	unsubscribe()
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)

	bus.Publish(New(TypeUserCreated, model.AuditActor{}, "users/1", nil))
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	var buf bytes.Buffer
	bus := NewBus(slog.New(slog.NewTextHandler(&buf, nil)))
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for i := 0; i < subscriberBuffer+1; i++ {
		bus.Publish(New(TypeEntryUpdated, model.AuditActor{}, "technology/go", nil))
	}

	require.Len(t, ch, subscriberBuffer)
	assert.Contains(t, buf.String(), "event dropped")
}

func TestNewStampsIDAndTime(t *testing.T) {
	a := New(TypeCommentCreated, model.AuditActor{}, "", nil)
	b := New(TypeCommentCreated, model.AuditActor{}, "", nil)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Timestamp.IsZero())
}
