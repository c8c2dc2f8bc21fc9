package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *Handler) {
	t.Helper()

	h := newTestHandler(t)
	router := chi.NewRouter()
	h.Register(humachi.New(router, NewConfig("test")))
	router.Get("/api/desktops/{session}/ws", h.Stream)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, h
}

func dial(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/desktops/" + sessionID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestStream(t *testing.T) {
	srv, h := newTestServer(t)

	s, err := h.sessions.Create()
	require.NoError(t, err)
	conn := dial(t, srv, s.ID)

	msg := readMessage(t, conn)
	require.Equal(t, MessageSnapshot, msg.Type)
	require.NotNil(t, msg.Desktop)
	assert.False(t, msg.Desktop.Windows["about"].IsOpen)

	require.NoError(t, conn.WriteJSON(Command{Op: OpOpen, Window: "about"}))
	msg = readMessage(t, conn)
	require.Equal(t, MessageSnapshot, msg.Type)
	assert.True(t, msg.Desktop.Windows["about"].IsOpen)
	assert.Equal(t, 2, msg.Desktop.MaxZIndex)

	require.NoError(t, conn.WriteJSON(Command{Op: OpOpen, Window: "trash"}))
	msg = readMessage(t, conn)
	assert.Equal(t, MessageError, msg.Type)
	assert.Contains(t, msg.Error, "window not found")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg = readMessage(t, conn)
	assert.Equal(t, MessageError, msg.Type)
	assert.Equal(t, "invalid command", msg.Error)
}

func TestStreamSurvivesTruncatedCommands(t *testing.T) {
	srv, h := newTestServer(t)

	s, err := h.sessions.Create()
	require.NoError(t, err)
	conn := dial(t, srv, s.ID)
	readMessage(t, conn)

	for _, frame := range []string{`{"op":"open"`, ``, `"open"`} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
		msg := readMessage(t, conn)
		assert.Equal(t, MessageError, msg.Type, frame)
		assert.Equal(t, "invalid command", msg.Error, frame)
	}

	require.NoError(t, conn.WriteJSON(Command{Op: OpOpen, Window: "contact"}))
	msg := readMessage(t, conn)
	require.Equal(t, MessageSnapshot, msg.Type)
	assert.True(t, msg.Desktop.Windows["contact"].IsOpen)
}

func TestStreamReceivesChangesFromHTTP(t *testing.T) {
	srv, h := newTestServer(t)

	s, err := h.sessions.Create()
	require.NoError(t, err)
	conn := dial(t, srv, s.ID)
	readMessage(t, conn)

	resp, err := http.Post(srv.URL+"/api/desktops/"+s.ID+"/windows/projects/open", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	msg := readMessage(t, conn)
	require.Equal(t, MessageSnapshot, msg.Type)
	assert.True(t, msg.Desktop.Windows["projects"].IsOpen)

	resp, err = http.Post(srv.URL+"/api/likes/increment", "application/json", strings.NewReader(`{"increment": 2}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	msg = readMessage(t, conn)
	require.Equal(t, MessageLikes, msg.Type)
	require.NotNil(t, msg.Likes)
	assert.Equal(t, int64(2), msg.Likes.Count)
}

func TestStreamUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/desktops/missing/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStreamUnsubscribesOnClose(t *testing.T) {
	srv, h := newTestServer(t)

	s, err := h.sessions.Create()
	require.NoError(t, err)
	conn := dial(t, srv, s.ID)
	readMessage(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	assert.Eventually(t, func() bool {
		_, err := h.sessions.Do(context.Background(), s.ID, Command{Op: OpTile}.Apply)
		return err == nil && h.likes.Len() == 0
	}, 5*time.Second, 10*time.Millisecond)
}
