// Package server serves the API and the embedded front end.
package server

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ItsNotGoodName/portfolio-os/internal/api"
	"github.com/ItsNotGoodName/portfolio-os/internal/build"
	"github.com/ItsNotGoodName/portfolio-os/pkg/chiext"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the API operations, the desktop websocket and, when assets is not
// nil, the front end.
func NewRouter(h *api.Handler, assets fs.FS) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(chiext.Logger())
	r.Use(middleware.Recoverer)

	if assets != nil {
		r.Use(chiext.StaticEmbedFS(chiext.StaticFSConfig{
			FileSystem:  assets,
			SPA:         true,
			Passthrough: []string{"/api/", "/docs", "/openapi", "/schemas/"},
		}))
	}

	h.Register(humachi.New(r, api.NewConfig(build.Current.Version)))
	r.Get("/api/desktops/{session}/ws", h.Stream)

	return r
}

func New(address string, handler http.Handler) Server {
	return Server{
		address: address,
		handler: handler,
	}
}

// Server is a suture service that runs an HTTP server until its context is canceled.
type Server struct {
	address string
	handler http.Handler
}

func (s Server) String() string {
	return "server.Server"
}

func (s Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errC := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "package", "server", "address", s.address)
		errC <- srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errC; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
