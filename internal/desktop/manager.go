package desktop

import (
	"sync"
)

// Manager owns the windows of one desktop. It is safe for concurrent use, every method
// runs to completion before the next one starts.
type Manager struct {
	mu        sync.Mutex
	cfg       Config
	order     []string
	windows   map[string]*Window
	maxZIndex int
	gesture   gesture
}

func NewManager(cfg Config) *Manager {
	if len(cfg.Windows) == 0 {
		cfg.Windows = DefaultWindows
	}

	m := &Manager{
		cfg:       cfg,
		order:     make([]string, 0, len(cfg.Windows)),
		windows:   make(map[string]*Window, len(cfg.Windows)),
		maxZIndex: 1,
	}
	for _, def := range cfg.Windows {
		if _, ok := m.windows[def.ID]; ok {
			continue
		}
		m.order = append(m.order, def.ID)
		m.windows[def.ID] = &Window{
			ID:       def.ID,
			Title:    def.Title,
			Position: def.Position,
			Size:     m.floorSize(def.Size),
			ZIndex:   1,
		}
	}

	return m
}

func (m *Manager) window(id string) (*Window, error) {
	w, ok := m.windows[id]
	if !ok {
		return nil, ErrWindowNotFound
	}
	return w, nil
}

func (m *Manager) raise(w *Window) {
	m.maxZIndex++
	w.ZIndex = m.maxZIndex
}

// Open shows the window on top of every other window. Opening an open window focuses it.
func (m *Manager) Open(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.window(id)
	if err != nil {
		return err
	}

	w.IsOpen = true
	w.IsMinimized = false
	m.raise(w)
	return nil
}

// Close hides the window. Geometry is kept for the next Open.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.window(id)
	if err != nil {
		return err
	}

	w.IsOpen = false
	if m.gesture.windowID == id {
		m.gesture = gesture{}
	}
	return nil
}

// Minimize toggles the minimized flag. Closed windows are toggled too but nothing is
// shown until they are opened again.
func (m *Manager) Minimize(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.window(id)
	if err != nil {
		return err
	}

	w.IsMinimized = !w.IsMinimized
	if w.IsMinimized && m.gesture.windowID == id {
		m.gesture = gesture{}
	}
	return nil
}

// Focus raises the window above every other window and restores it if minimized.
func (m *Manager) Focus(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.window(id)
	if err != nil {
		return err
	}

	m.focus(w)
	return nil
}

func (m *Manager) focus(w *Window) {
	w.IsMinimized = false
	m.raise(w)
}

// UpdatePosition moves the window, keeping it between the menu bar and the taskbar.
func (m *Manager) UpdatePosition(id string, p Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.window(id)
	if err != nil {
		return err
	}

	w.Position = m.clampPosition(p, w.Size)
	return nil
}

// UpdateSize resizes the window, flooring it at the minimum size. The position is not
// clamped again, the next move does that.
func (m *Manager) UpdateSize(id string, s Size) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.window(id)
	if err != nil {
		return err
	}

	w.Size = m.floorSize(s)
	return nil
}

// TaskbarClick restores and focuses a minimized window, otherwise it minimizes it.
func (m *Manager) TaskbarClick(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.window(id)
	if err != nil {
		return err
	}
	if !w.IsOpen {
		return ErrWindowNotVisible
	}

	if w.IsMinimized {
		m.focus(w)
	} else {
		w.IsMinimized = true
		if m.gesture.windowID == id {
			m.gesture = gesture{}
		}
	}
	return nil
}

// SetViewport updates the visible area used for clamping. Zero values keep the
// current dimension.
func (m *Manager) SetViewport(s Size) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.Width > 0 {
		m.cfg.Viewport.Width = s.Width
	}
	if s.Height > 0 {
		m.cfg.Viewport.Height = s.Height
	}
}

func (m *Manager) clampPosition(p Point, s Size) Point {
	maxX := m.cfg.Viewport.Width - s.Width
	maxY := m.cfg.Viewport.Height - s.Height - m.cfg.BottomChrome
	return Point{
		X: max(0, min(maxX, p.X)),
		Y: max(m.cfg.TopChrome, min(maxY, p.Y)),
	}
}

func (m *Manager) floorSize(s Size) Size {
	return Size{
		Width:  max(s.Width, m.cfg.MinSize.Width, 1),
		Height: max(s.Height, m.cfg.MinSize.Height, 1),
	}
}

// Window returns a copy of the window.
func (m *Manager) Window(id string) (Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.window(id)
	if err != nil {
		return Window{}, err
	}
	return *w, nil
}

func (m *Manager) MaxZIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxZIndex
}

// Snapshot copies the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	windows := make(map[string]Window, len(m.windows))
	for id, w := range m.windows {
		windows[id] = *w
	}

	return Snapshot{
		Windows:   windows,
		MaxZIndex: m.maxZIndex,
		Viewport:  m.cfg.Viewport,
		Taskbar:   m.taskbar(),
	}
}

func (m *Manager) taskbar() []TaskbarEntry {
	topmost := ""
	topZ := 0
	for _, id := range m.order {
		w := m.windows[id]
		if w.Visible() && w.ZIndex > topZ {
			topmost, topZ = id, w.ZIndex
		}
	}

	entries := []TaskbarEntry{}
	for _, id := range m.order {
		w := m.windows[id]
		if !w.IsOpen {
			continue
		}
		entries = append(entries, TaskbarEntry{
			ID:          w.ID,
			Title:       w.Title,
			IsMinimized: w.IsMinimized,
			IsTopmost:   id == topmost,
		})
	}
	return entries
}
