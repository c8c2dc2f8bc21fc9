package desktop

import "fmt"

// Target is the part of a window a pointer went down on.
type Target string

const (
	TargetTitleBar     Target = "title"
	TargetResizeHandle Target = "resize"
)

func ParseTarget(s string) (Target, error) {
	switch t := Target(s); t {
	case TargetTitleBar, TargetResizeHandle:
		return t, nil
	default:
		return "", fmt.Errorf("unknown pointer target %q", s)
	}
}

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureDrag
	gestureResize
)

// gesture is the single active pointer interaction of a desktop.
type gesture struct {
	kind      gestureKind
	windowID  string
	offset    Point
	start     Point
	startSize Size
}

// PointerDown starts dragging or resizing a window and focuses it.
func (m *Manager) PointerDown(id string, target Target, p Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.window(id)
	if err != nil {
		return err
	}
	if !w.Visible() {
		return ErrWindowNotVisible
	}
	if m.gesture.kind != gestureNone {
		return ErrGestureInProgress
	}

	switch target {
	case TargetTitleBar:
		m.gesture = gesture{
			kind:     gestureDrag,
			windowID: id,
			offset:   p.Sub(w.Position),
		}
	case TargetResizeHandle:
		m.gesture = gesture{
			kind:      gestureResize,
			windowID:  id,
			start:     p,
			startSize: w.Size,
		}
	default:
		return fmt.Errorf("unknown pointer target %q", target)
	}

	m.focus(w)
	return nil
}

// PointerMove applies the pointer position to the active gesture. Without an active
// gesture it does nothing.
func (m *Manager) PointerMove(p Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g := m.gesture
	if g.kind == gestureNone {
		return nil
	}

	w, err := m.window(g.windowID)
	if err != nil {
		return err
	}

	switch g.kind {
	case gestureDrag:
		w.Position = m.clampPosition(p.Sub(g.offset), w.Size)
	case gestureResize:
		delta := p.Sub(g.start)
		w.Size = m.floorSize(Size{
			Width:  g.startSize.Width + delta.X,
			Height: g.startSize.Height + delta.Y,
		})
	}
	return nil
}

// PointerUp ends the active gesture.
func (m *Manager) PointerUp() {
	m.mu.Lock()
	m.gesture = gesture{}
	m.mu.Unlock()
}

// Dragging returns the id of the window being dragged or resized.
func (m *Manager) Dragging() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gesture.windowID, m.gesture.kind != gestureNone
}
