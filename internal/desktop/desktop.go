// Package desktop holds the window manager state of a single desktop session.
//
// A Manager owns a fixed set of windows created from a Config. Windows are never
// created or destroyed after that, only opened, closed, minimized, focused, moved and
// resized. Every mutation goes through the Manager so that the stacking order and the
// geometry bounds stay consistent.
package desktop

import "errors"

var (
	ErrWindowNotFound    = errors.New("window not found")
	ErrWindowNotVisible  = errors.New("window not visible")
	ErrGestureInProgress = errors.New("gesture in progress")
)

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Window is a single pane of the desktop.
type Window struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsOpen      bool   `json:"is_open"`
	IsMinimized bool   `json:"is_minimized"`
	Position    Point  `json:"position"`
	Size        Size   `json:"size"`
	ZIndex      int    `json:"z_index"`
}

// Visible reports whether the window is painted.
func (w Window) Visible() bool {
	return w.IsOpen && !w.IsMinimized
}

type WindowSpec struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Position Point  `json:"position" yaml:"position"`
	Size     Size   `json:"size" yaml:"size"`
}

type Config struct {
	Viewport     Size
	TopChrome    int
	BottomChrome int
	MinSize      Size
	Windows      []WindowSpec
}

var DefaultWindows = []WindowSpec{
	{ID: "about", Title: "About Me", Position: Point{X: 50, Y: 50}, Size: Size{Width: 600, Height: 500}},
	{ID: "projects", Title: "Projects", Position: Point{X: 100, Y: 100}, Size: Size{Width: 700, Height: 600}},
	{ID: "contact", Title: "Contact", Position: Point{X: 150, Y: 150}, Size: Size{Width: 500, Height: 400}},
	{ID: "settings", Title: "Settings", Position: Point{X: 200, Y: 200}, Size: Size{Width: 450, Height: 350}},
}

var DefaultConfig = Config{
	Viewport:     Size{Width: 1280, Height: 800},
	TopChrome:    24,
	BottomChrome: 48,
	MinSize:      Size{Width: 300, Height: 200},
	Windows:      DefaultWindows,
}

// TaskbarEntry is a button on the taskbar, one per open window.
type TaskbarEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsMinimized bool   `json:"is_minimized"`
	IsTopmost   bool   `json:"is_topmost"`
}

// Snapshot is a copy of the desktop state that is safe to render or serialize.
type Snapshot struct {
	Windows   map[string]Window `json:"windows"`
	MaxZIndex int               `json:"max_z_index"`
	Viewport  Size              `json:"viewport"`
	Taskbar   []TaskbarEntry    `json:"taskbar"`
}
