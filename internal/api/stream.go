package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ItsNotGoodName/portfolio-os/internal/desktop"
	"github.com/ItsNotGoodName/portfolio-os/internal/session"
	"github.com/ItsNotGoodName/portfolio-os/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

const (
	MessageSnapshot = "snapshot"
	MessageLikes    = "likes"
	MessageError    = "error"
)

// Message is sent from the server to a websocket client.
type Message struct {
	Type    string            `json:"type"`
	Desktop *desktop.Snapshot `json:"desktop,omitempty"`
	Likes   *store.Likes      `json:"likes,omitempty"`
	Error   string            `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Stream upgrades to a websocket that applies Commands from the client to the session in
// the URL and pushes the session's snapshots and the like counter back.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Get(chi.URLParam(r, "session"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	snapshots, unsubscribe := s.Subscribe()
	defer unsubscribe()
	likes, unsubscribeLikes := h.likes.Subscribe()
	defer unsubscribeLikes()
	errs := make(chan string, 1)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		return h.readCommands(ctx, conn, s, errs)
	})
	g.Go(func() error {
		return writeMessages(ctx, conn, s.Snapshot(), snapshots, likes, errs)
	})
	g.Go(func() error {
		<-ctx.Done()
		return conn.Close()
	})

	err = g.Wait()
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !errors.Is(err, context.Canceled) {
		slog.Debug("Websocket closed", "package", "api", "session", s.ID, "error", err)
	}
}

func (h *Handler) readCommands(ctx context.Context, conn *websocket.Conn, s *session.Session, errs chan<- string) error {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			sendError(errs, "invalid command")
			continue
		}

		if _, err := h.sessions.Do(ctx, s.ID, cmd.Apply); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			sendError(errs, err.Error())
		}
	}
}

// sendError drops the error when the previous one has not been written yet.
func sendError(errs chan<- string, msg string) {
	select {
	case errs <- msg:
	default:
	}
}

func writeMessages(ctx context.Context, conn *websocket.Conn, initial desktop.Snapshot, snapshots <-chan desktop.Snapshot, likes <-chan store.Likes, errs <-chan string) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	write := func(msg Message) error {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg)
	}

	if err := write(Message{Type: MessageSnapshot, Desktop: &initial}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return ctx.Err()
		case snapshot := <-snapshots:
			if err := write(Message{Type: MessageSnapshot, Desktop: &snapshot}); err != nil {
				return err
			}
		case l := <-likes:
			if err := write(Message{Type: MessageLikes, Likes: &l}); err != nil {
				return err
			}
		case msg := <-errs:
			if err := write(Message{Type: MessageError, Error: msg}); err != nil {
				return err
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}
