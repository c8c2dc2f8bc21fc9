// Package api exposes the portfolio data and the desktop sessions over HTTP.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ItsNotGoodName/portfolio-os/internal/bus"
	"github.com/ItsNotGoodName/portfolio-os/internal/desktop"
	"github.com/ItsNotGoodName/portfolio-os/internal/session"
	"github.com/ItsNotGoodName/portfolio-os/internal/store"
	"github.com/danielgtaylor/huma/v2"
)

type Handler struct {
	store    *store.Store
	sessions *session.Registry
	likes    *bus.Hub[store.Likes]
}

// New creates the handler. Published likes reach websocket clients only after the caller
// registers likes with the bus.
func New(db *store.Store, sessions *session.Registry, likes *bus.Hub[store.Likes]) *Handler {
	return &Handler{
		store:    db,
		sessions: sessions,
		likes:    likes,
	}
}

// Register adds every operation to api.
func (h *Handler) Register(api huma.API) {
	h.registerData(api)
	h.registerDesktops(api)
}

// NewConfig returns the OpenAPI config of the portfolio API.
func NewConfig(version string) huma.Config {
	return huma.DefaultConfig("Portfolio OS", version)
}

func toHumaError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, desktop.ErrWindowNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, store.ErrInvalid),
		errors.Is(err, ErrUnknownCommand):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, desktop.ErrWindowNotVisible),
		errors.Is(err, desktop.ErrGestureInProgress):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, session.ErrTooManySessions):
		return huma.NewError(http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("Request failed", "package", "api", "error", err)
		return huma.Error500InternalServerError("internal server error")
	}
}
