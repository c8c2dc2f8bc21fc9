package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	N int
}

type otherEvent struct{}

func TestPublish(t *testing.T) {
	got := []int{}
	Subscribe("test", func(ctx context.Context, event testEvent) error {
		got = append(got, event.N)
		return nil
	})
	Subscribe("test-error", func(ctx context.Context, event testEvent) error {
		return errors.New("ignored")
	})

	Publish(testEvent{N: 1})
	Publish(otherEvent{})
	Publish(testEvent{N: 2})

	assert.Equal(t, []int{1, 2}, got)
}

func TestHubKeepsLatest(t *testing.T) {
	hub := NewHub[int]()
	c, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	ctx := context.Background()
	require.NoError(t, hub.Broadcast(ctx, 1))
	require.NoError(t, hub.Broadcast(ctx, 2))
	require.NoError(t, hub.Broadcast(ctx, 3))

	assert.Equal(t, 3, <-c)
	select {
	case v := <-c:
		t.Fatalf("unexpected event %d", v)
	default:
	}
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub[string]()
	_, unsubscribe := hub.Subscribe()
	c2, unsubscribe2 := hub.Subscribe()
	defer unsubscribe2()
	assert.Equal(t, 2, hub.Len())

	unsubscribe()
	assert.Equal(t, 1, hub.Len())

	require.NoError(t, hub.Broadcast(context.Background(), "hello"))
	assert.Equal(t, "hello", <-c2)
}

func TestHubRegister(t *testing.T) {
	type registeredEvent struct{ Name string }

	hub := NewHub[registeredEvent]()
	unregister := hub.Register("test")
	c, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	Publish(registeredEvent{Name: "likes"})
	assert.Equal(t, registeredEvent{Name: "likes"}, <-c)

	unregister()
	Publish(registeredEvent{Name: "dropped"})
	select {
	case e := <-c:
		t.Fatalf("unexpected event %v", e)
	default:
	}
}

func TestUnsubscribe(t *testing.T) {
	type unsubscribeEvent struct{}

	var first, second int
	unsubscribeFirst := Subscribe("first", func(ctx context.Context, event unsubscribeEvent) error {
		first++
		return nil
	})
	unsubscribeSecond := Subscribe("second", func(ctx context.Context, event unsubscribeEvent) error {
		second++
		return nil
	})
	defer unsubscribeSecond()

	Publish(unsubscribeEvent{})
	unsubscribeFirst()
	unsubscribeFirst()
	Publish(unsubscribeEvent{})

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestHubCanceledContext(t *testing.T) {
	hub := NewHub[int]()
	_, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, hub.Broadcast(ctx, 1), context.Canceled)
}
