package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ItsNotGoodName/portfolio-os/internal/desktop"
	"github.com/danielgtaylor/huma/v2"
)

var ErrUnknownCommand = errors.New("unknown command")

const (
	OpOpen        = "open"
	OpClose       = "close"
	OpMinimize    = "minimize"
	OpFocus       = "focus"
	OpTaskbar     = "taskbar"
	OpMove        = "move"
	OpResize      = "resize"
	OpViewport    = "viewport"
	OpTile        = "tile"
	OpPointerDown = "pointer_down"
	OpPointerMove = "pointer_move"
	OpPointerUp   = "pointer_up"
)

// Command is a single desktop mutation, sent over HTTP or the websocket.
type Command struct {
	Op     string `json:"op"`
	Window string `json:"window,omitempty"`
	Target string `json:"target,omitempty"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

func (c Command) Apply(m *desktop.Manager) error {
	switch c.Op {
	case OpOpen:
		return m.Open(c.Window)
	case OpClose:
		return m.Close(c.Window)
	case OpMinimize:
		return m.Minimize(c.Window)
	case OpFocus:
		return m.Focus(c.Window)
	case OpTaskbar:
		return m.TaskbarClick(c.Window)
	case OpMove:
		return m.UpdatePosition(c.Window, desktop.Point{X: c.X, Y: c.Y})
	case OpResize:
		return m.UpdateSize(c.Window, desktop.Size{Width: c.Width, Height: c.Height})
	case OpViewport:
		m.SetViewport(desktop.Size{Width: c.Width, Height: c.Height})
		return nil
	case OpTile:
		m.Tile()
		return nil
	case OpPointerDown:
		target, err := desktop.ParseTarget(c.Target)
		if err != nil {
			return errors.Join(ErrUnknownCommand, err)
		}
		return m.PointerDown(c.Window, target, desktop.Point{X: c.X, Y: c.Y})
	case OpPointerMove:
		return m.PointerMove(desktop.Point{X: c.X, Y: c.Y})
	case OpPointerUp:
		m.PointerUp()
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, c.Op)
	}
}

type DesktopBody struct {
	ID      string           `json:"id"`
	Desktop desktop.Snapshot `json:"desktop"`
}

type DesktopOutput struct {
	Body DesktopBody
}

type SessionInput struct {
	Session string `path:"session" doc:"Desktop session ID"`
}

type CreateDesktopInput struct {
	Body struct {
		Viewport *desktop.Size `json:"viewport,omitempty" doc:"Browser viewport, defaults to the configured viewport"`
	} `required:"false"`
}

type SetViewportInput struct {
	Session string `path:"session"`
	Body    struct {
		Width  int `json:"width" minimum:"1"`
		Height int `json:"height" minimum:"1"`
	}
}

type WindowInput struct {
	Session string `path:"session"`
	Window  string `path:"window"`
}

type MoveWindowInput struct {
	Session string `path:"session"`
	Window  string `path:"window"`
	Body    desktop.Point
}

type ResizeWindowInput struct {
	Session string `path:"session"`
	Window  string `path:"window"`
	Body    desktop.Size
}

type PointerInput struct {
	Session string `path:"session"`
	Body    struct {
		Type   string `json:"type" enum:"down,move,up"`
		Window string `json:"window,omitempty" doc:"Required for down"`
		Target string `json:"target,omitempty" enum:"title,resize" doc:"Required for down"`
		X      int    `json:"x"`
		Y      int    `json:"y"`
	}
}

func (h *Handler) do(ctx context.Context, sessionID string, cmd Command) (*DesktopOutput, error) {
	snapshot, err := h.sessions.Do(ctx, sessionID, cmd.Apply)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &DesktopOutput{Body: DesktopBody{ID: sessionID, Desktop: snapshot}}, nil
}

func (h *Handler) registerDesktops(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-desktop",
		Method:        http.MethodPost,
		Path:          "/api/desktops",
		Summary:       "Start a desktop session",
		Tags:          []string{"Desktops"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateDesktopInput) (*DesktopOutput, error) {
		s, err := h.sessions.Create()
		if err != nil {
			return nil, toHumaError(err)
		}

		cmd := Command{Op: OpViewport}
		if input.Body.Viewport != nil {
			cmd.Width, cmd.Height = input.Body.Viewport.Width, input.Body.Viewport.Height
		}
		return h.do(ctx, s.ID, cmd)
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-desktop",
		Method:      http.MethodGet,
		Path:        "/api/desktops/{session}",
		Summary:     "Get a desktop session",
		Tags:        []string{"Desktops"},
	}, func(ctx context.Context, input *SessionInput) (*DesktopOutput, error) {
		s, err := h.sessions.Get(input.Session)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &DesktopOutput{Body: DesktopBody{ID: s.ID, Desktop: s.Snapshot()}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-viewport",
		Method:      http.MethodPut,
		Path:        "/api/desktops/{session}/viewport",
		Summary:     "Report the browser viewport",
		Tags:        []string{"Desktops"},
	}, func(ctx context.Context, input *SetViewportInput) (*DesktopOutput, error) {
		return h.do(ctx, input.Session, Command{Op: OpViewport, Width: input.Body.Width, Height: input.Body.Height})
	})

	huma.Register(api, huma.Operation{
		OperationID: "tile-desktop",
		Method:      http.MethodPost,
		Path:        "/api/desktops/{session}/tile",
		Summary:     "Tile the visible windows",
		Tags:        []string{"Desktops"},
	}, func(ctx context.Context, input *SessionInput) (*DesktopOutput, error) {
		return h.do(ctx, input.Session, Command{Op: OpTile})
	})

	for _, action := range []struct {
		op      string
		summary string
	}{
		{OpOpen, "Open a window"},
		{OpClose, "Close a window"},
		{OpMinimize, "Toggle whether a window is minimized"},
		{OpFocus, "Bring a window to the front"},
		{OpTaskbar, "Click the taskbar entry of a window"},
	} {
		op := action.op
		huma.Register(api, huma.Operation{
			OperationID: op + "-window",
			Method:      http.MethodPost,
			Path:        "/api/desktops/{session}/windows/{window}/" + op,
			Summary:     action.summary,
			Tags:        []string{"Windows"},
		}, func(ctx context.Context, input *WindowInput) (*DesktopOutput, error) {
			return h.do(ctx, input.Session, Command{Op: op, Window: input.Window})
		})
	}

	huma.Register(api, huma.Operation{
		OperationID: "move-window",
		Method:      http.MethodPut,
		Path:        "/api/desktops/{session}/windows/{window}/position",
		Summary:     "Move a window",
		Tags:        []string{"Windows"},
	}, func(ctx context.Context, input *MoveWindowInput) (*DesktopOutput, error) {
		return h.do(ctx, input.Session, Command{Op: OpMove, Window: input.Window, X: input.Body.X, Y: input.Body.Y})
	})

	huma.Register(api, huma.Operation{
		OperationID: "resize-window",
		Method:      http.MethodPut,
		Path:        "/api/desktops/{session}/windows/{window}/size",
		Summary:     "Resize a window",
		Tags:        []string{"Windows"},
	}, func(ctx context.Context, input *ResizeWindowInput) (*DesktopOutput, error) {
		return h.do(ctx, input.Session, Command{Op: OpResize, Window: input.Window, Width: input.Body.Width, Height: input.Body.Height})
	})

	huma.Register(api, huma.Operation{
		OperationID: "pointer",
		Method:      http.MethodPost,
		Path:        "/api/desktops/{session}/pointer",
		Summary:     "Drive a drag or resize gesture",
		Tags:        []string{"Windows"},
	}, func(ctx context.Context, input *PointerInput) (*DesktopOutput, error) {
		return h.do(ctx, input.Session, Command{
			Op:     "pointer_" + input.Body.Type,
			Window: input.Body.Window,
			Target: input.Body.Target,
			X:      input.Body.X,
			Y:      input.Body.Y,
		})
	})
}
