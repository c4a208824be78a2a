package realtime_test

import (
	"context"
	"testing"

	"go-leave/internal/realtime"

	"github.com/stretchr/testify/assert"
)

func TestHub_PublishTargets(t *testing.T) {
	hub := realtime.NewHub()
	ctx := context.Background()

	alice := hub.Subscribe(1, "employee")
	hod := hub.Subscribe(2, "hod")
	admin := hub.Subscribe(3, "admin")
	defer alice.Close()
	defer hod.Close()
	defer admin.Close()

	_ = hub.Publish(ctx, realtime.ToUser(1), realtime.Event{Type: realtime.EventLeaveStatusUpdate})
	_ = hub.Publish(ctx, realtime.ToRoles("hod", "admin"), realtime.Event{Type: realtime.EventNewLeave})

	assert.Equal(t, realtime.EventLeaveStatusUpdate, (<-alice.C).Type)
	assert.Equal(t, realtime.EventNewLeave, (<-hod.C).Type)
	assert.Equal(t, realtime.EventNewLeave, (<-admin.C).Type)

	assert.Len(t, alice.C, 0)
	assert.Len(t, hod.C, 0)
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := realtime.NewHub()
	sub := hub.Subscribe(1, "employee")
	defer sub.Close()

	for i := 0; i < 100; i++ {
		assert.NoError(t, hub.Publish(context.Background(), realtime.ToUser(1), realtime.Event{Type: "tick"}))
	}
	assert.Equal(t, 16, len(sub.C))
}

func TestHub_Close(t *testing.T) {
	hub := realtime.NewHub()
	sub := hub.Subscribe(1, "employee")
	assert.Equal(t, 1, hub.Len())

	sub.Close()
	sub.Close()

	assert.Equal(t, 0, hub.Len())
	_, ok := <-sub.C
	assert.False(t, ok)
}
