package bus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

var (
	_ctx   = context.Background()
	subsMu sync.RWMutex
	subsID uint64
	subs   = make(map[string][]subscriber)
)

type subscriber struct {
	id uint64
	fn func(ctx context.Context, event any)
}

func SetContext(ctx context.Context) {
	subsMu.Lock()
	_ctx = ctx
	subsMu.Unlock()
}

func topic[T any]() string {
	return fmt.Sprintf("%T", *new(T))
}

// Subscribe registers fn for every event of type T published with Publish. The returned
// function removes it.
func Subscribe[T any](name string, fn func(ctx context.Context, event T) error) func() {
	subsMu.Lock()
	defer subsMu.Unlock()

	t := topic[T]()
	subsID++
	id := subsID
	subs[t] = append(subs[t], subscriber{
		id: id,
		fn: func(ctx context.Context, event any) {
			if err := fn(ctx, event.(T)); err != nil {
				slog.Error("Failed to handle event", "package", "bus", "name", name, "error", err)
			}
		},
	})

	return func() {
		subsMu.Lock()
		defer subsMu.Unlock()

		kept := make([]subscriber, 0, len(subs[t]))
		for _, sub := range subs[t] {
			if sub.id != id {
				kept = append(kept, sub)
			}
		}
		if len(kept) == 0 {
			delete(subs, t)
		} else {
			subs[t] = kept
		}
	}
}

func Publish[T any](event T) {
	subsMu.RLock()
	ctx := _ctx
	fns := subs[topic[T]()]
	subsMu.RUnlock()

	for _, sub := range fns {
		sub.fn(ctx, event)
	}
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{
		subs: make(map[*chan T]struct{}),
	}
}

// Hub fans out events to subscribers. Every subscriber holds at most one pending event,
// a newer event replaces an unread older one so slow subscribers only see the latest.
type Hub[T any] struct {
	mu   sync.Mutex
	subs map[*chan T]struct{}
}

func (h *Hub[T]) Broadcast(ctx context.Context, event T) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		if err := ctx.Err(); err != nil {
			return err
		}

		select {
		case *sub <- event:
			continue
		default:
		}

		select {
		case <-*sub:
		default:
		}
		select {
		case *sub <- event:
		default:
		}
	}

	return nil
}

// Register forwards every published event of type T to the hub until the returned
// function is called.
func (h *Hub[T]) Register(name string) func() {
	return Subscribe(name, h.Broadcast)
}

func (h *Hub[T]) Subscribe() (<-chan T, func()) {
	c := make(chan T, 1)
	key := &c

	h.mu.Lock()
	h.subs[key] = struct{}{}
	h.mu.Unlock()

	return c, func() {
		h.mu.Lock()
		delete(h.subs, key)
		h.mu.Unlock()
	}
}

func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
