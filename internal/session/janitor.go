package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/ItsNotGoodName/portfolio-os/pkg/sutureext"
)

// NewJanitor returns a service that periodically removes idle sessions.
func NewJanitor(registry *Registry, interval time.Duration) sutureext.Ticker {
	return sutureext.NewTicker("session.Janitor", interval, func(ctx context.Context) error {
		if count := registry.Sweep(); count > 0 {
			slog.Info("Removed idle sessions", "package", "session", "count", count, "remaining", registry.Len())
		}
		return nil
	})
}
