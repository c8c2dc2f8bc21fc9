package desktop

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(DefaultConfig)
}

func mustWindow(t *testing.T, m *Manager, id string) Window {
	t.Helper()
	w, err := m.Window(id)
	require.NoError(t, err)
	return w
}

func TestNewManager(t *testing.T) {
	m := newTestManager()

	snapshot := m.Snapshot()
	assert.Equal(t, 1, snapshot.MaxZIndex)
	assert.Len(t, snapshot.Windows, 4)
	assert.Empty(t, snapshot.Taskbar)
	for _, w := range snapshot.Windows {
		assert.False(t, w.IsOpen, w.ID)
		assert.False(t, w.IsMinimized, w.ID)
		assert.Equal(t, 1, w.ZIndex, w.ID)
	}

	about := snapshot.Windows["about"]
	assert.Equal(t, "About Me", about.Title)
	assert.Equal(t, Point{X: 50, Y: 50}, about.Position)
	assert.Equal(t, Size{Width: 600, Height: 500}, about.Size)
}

func TestNewManagerFloorsAndDeduplicates(t *testing.T) {
	m := NewManager(Config{
		Viewport: Size{Width: 1000, Height: 800},
		MinSize:  Size{Width: 300, Height: 200},
		Windows: []WindowSpec{
			{ID: "a", Title: "A", Size: Size{Width: 10, Height: 10}},
			{ID: "a", Title: "Duplicate"},
		},
	})

	snapshot := m.Snapshot()
	require.Len(t, snapshot.Windows, 1)
	assert.Equal(t, "A", snapshot.Windows["a"].Title)
	assert.Equal(t, Size{Width: 300, Height: 200}, snapshot.Windows["a"].Size)
}

func TestOpenFocusScenario(t *testing.T) {
	m := newTestManager()

	require.NoError(t, m.Open("about"))
	about := mustWindow(t, m, "about")
	assert.True(t, about.IsOpen)
	assert.Equal(t, 2, about.ZIndex)
	assert.Equal(t, 2, m.MaxZIndex())

	require.NoError(t, m.Open("projects"))
	assert.Equal(t, 3, mustWindow(t, m, "projects").ZIndex)
	assert.Equal(t, 3, m.MaxZIndex())

	require.NoError(t, m.Focus("about"))
	assert.Equal(t, 4, mustWindow(t, m, "about").ZIndex)
	assert.Equal(t, 4, m.MaxZIndex())
	assert.Equal(t, 3, mustWindow(t, m, "projects").ZIndex)
}

func TestOpenAlreadyOpenRefocuses(t *testing.T) {
	m := newTestManager()

	require.NoError(t, m.Open("about"))
	require.NoError(t, m.Open("contact"))
	require.NoError(t, m.Open("about"))

	assert.Equal(t, 4, mustWindow(t, m, "about").ZIndex)
	assert.True(t, mustWindow(t, m, "about").IsOpen)
}

func TestCloseKeepsGeometry(t *testing.T) {
	m := newTestManager()

	require.NoError(t, m.Open("contact"))
	require.NoError(t, m.UpdatePosition("contact", Point{X: 300, Y: 120}))
	require.NoError(t, m.UpdateSize("contact", Size{Width: 640, Height: 480}))
	before := mustWindow(t, m, "contact")

	require.NoError(t, m.Close("contact"))
	closed := mustWindow(t, m, "contact")
	assert.False(t, closed.IsOpen)
	assert.Equal(t, before.Position, closed.Position)
	assert.Equal(t, before.Size, closed.Size)
	assert.Equal(t, before.ZIndex, closed.ZIndex)

	require.NoError(t, m.Open("about"))
	require.NoError(t, m.Open("contact"))
	reopened := mustWindow(t, m, "contact")
	assert.Equal(t, before.Position, reopened.Position)
	assert.Equal(t, before.Size, reopened.Size)
	assert.Equal(t, 4, reopened.ZIndex)
}

func TestMinimizeToggles(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.Open("about"))
	z := mustWindow(t, m, "about").ZIndex

	require.NoError(t, m.Minimize("about"))
	assert.True(t, mustWindow(t, m, "about").IsMinimized)
	assert.Equal(t, z, mustWindow(t, m, "about").ZIndex)

	require.NoError(t, m.Minimize("about"))
	assert.False(t, mustWindow(t, m, "about").IsMinimized)
	assert.Equal(t, z, mustWindow(t, m, "about").ZIndex)
}

func TestMinimizeClosedWindow(t *testing.T) {
	m := newTestManager()

	require.NoError(t, m.Minimize("settings"))
	w := mustWindow(t, m, "settings")
	assert.False(t, w.IsOpen)
	assert.True(t, w.IsMinimized)
	assert.False(t, w.Visible())

	require.NoError(t, m.Open("settings"))
	assert.True(t, mustWindow(t, m, "settings").Visible())
}

func TestMinimizeThenFocusRestoresGeometry(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.Open("projects"))
	require.NoError(t, m.UpdatePosition("projects", Point{X: 210, Y: 90}))
	require.NoError(t, m.UpdateSize("projects", Size{Width: 420, Height: 360}))
	before := mustWindow(t, m, "projects")

	require.NoError(t, m.Minimize("projects"))
	require.NoError(t, m.Focus("projects"))

	after := mustWindow(t, m, "projects")
	assert.False(t, after.IsMinimized)
	assert.Equal(t, before.Position, after.Position)
	assert.Equal(t, before.Size, after.Size)
}

func TestUpdateSize(t *testing.T) {
	tests := []struct {
		name string
		in   Size
		want Size
	}{
		{"below minimum", Size{Width: 10, Height: 10}, Size{Width: 300, Height: 200}},
		{"width below minimum", Size{Width: 299, Height: 640}, Size{Width: 300, Height: 640}},
		{"negative", Size{Width: -40, Height: -1}, Size{Width: 300, Height: 200}},
		{"unchanged", Size{Width: 800, Height: 600}, Size{Width: 800, Height: 600}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager()
			require.NoError(t, m.UpdateSize("settings", tt.in))
			assert.Equal(t, tt.want, mustWindow(t, m, "settings").Size)
		})
	}
}

func TestUpdateSizeDoesNotClampPosition(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.UpdatePosition("about", Point{X: 600, Y: 250}))
	require.NoError(t, m.UpdateSize("about", Size{Width: 900, Height: 600}))

	w := mustWindow(t, m, "about")
	assert.Equal(t, Point{X: 600, Y: 250}, w.Position)
	assert.Equal(t, Size{Width: 900, Height: 600}, w.Size)
}

func TestUpdatePosition(t *testing.T) {
	// about is 600x500 in a 1280x800 viewport with 24px menu bar and 48px taskbar.
	tests := []struct {
		name string
		in   Point
		want Point
	}{
		{"inside", Point{X: 100, Y: 100}, Point{X: 100, Y: 100}},
		{"top left", Point{X: -10, Y: -10}, Point{X: 0, Y: 24}},
		{"under menu bar", Point{X: 10, Y: 5}, Point{X: 10, Y: 24}},
		{"bottom right", Point{X: 2000, Y: 2000}, Point{X: 680, Y: 252}},
		{"exact bounds", Point{X: 680, Y: 252}, Point{X: 680, Y: 252}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager()
			require.NoError(t, m.UpdatePosition("about", tt.in))
			assert.Equal(t, tt.want, mustWindow(t, m, "about").Position)
		})
	}
}

func TestUpdatePositionUsesCurrentSize(t *testing.T) {
	m := newTestManager()

	require.NoError(t, m.UpdateSize("about", Size{Width: 1000, Height: 700}))
	require.NoError(t, m.UpdatePosition("about", Point{X: 400, Y: 400}))
	assert.Equal(t, Point{X: 280, Y: 52}, mustWindow(t, m, "about").Position)

	require.NoError(t, m.UpdateSize("about", Size{Width: 2000, Height: 900}))
	require.NoError(t, m.UpdatePosition("about", Point{X: 400, Y: 400}))
	assert.Equal(t, Point{X: 0, Y: 24}, mustWindow(t, m, "about").Position)
}

func TestSetViewport(t *testing.T) {
	m := newTestManager()
	m.SetViewport(Size{Width: 800, Height: 600})
	require.NoError(t, m.UpdatePosition("about", Point{X: 1000, Y: 1000}))
	assert.Equal(t, Point{X: 200, Y: 52}, mustWindow(t, m, "about").Position)

	m.SetViewport(Size{Width: 0, Height: 700})
	assert.Equal(t, Size{Width: 800, Height: 700}, m.Snapshot().Viewport)
}

func TestUnknownWindow(t *testing.T) {
	m := newTestManager()

	assert.ErrorIs(t, m.Open("trash"), ErrWindowNotFound)
	assert.ErrorIs(t, m.Close("trash"), ErrWindowNotFound)
	assert.ErrorIs(t, m.Minimize("trash"), ErrWindowNotFound)
	assert.ErrorIs(t, m.Focus("trash"), ErrWindowNotFound)
	assert.ErrorIs(t, m.UpdatePosition("trash", Point{}), ErrWindowNotFound)
	assert.ErrorIs(t, m.UpdateSize("trash", Size{}), ErrWindowNotFound)
	assert.ErrorIs(t, m.TaskbarClick("trash"), ErrWindowNotFound)
	assert.ErrorIs(t, m.PointerDown("trash", TargetTitleBar, Point{}), ErrWindowNotFound)
	_, err := m.Window("trash")
	assert.ErrorIs(t, err, ErrWindowNotFound)
	assert.Equal(t, 1, m.MaxZIndex())
}

func TestTaskbar(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.Open("projects"))
	require.NoError(t, m.Open("about"))

	taskbar := m.Snapshot().Taskbar
	require.Len(t, taskbar, 2)
	assert.Equal(t, "about", taskbar[0].ID)
	assert.True(t, taskbar[0].IsTopmost)
	assert.Equal(t, "projects", taskbar[1].ID)
	assert.False(t, taskbar[1].IsTopmost)

	require.NoError(t, m.TaskbarClick("projects"))
	assert.True(t, mustWindow(t, m, "projects").IsMinimized)
	assert.Equal(t, 2, mustWindow(t, m, "projects").ZIndex)

	require.NoError(t, m.TaskbarClick("projects"))
	projects := mustWindow(t, m, "projects")
	assert.False(t, projects.IsMinimized)
	assert.Equal(t, 4, projects.ZIndex)
	assert.Equal(t, 4, m.MaxZIndex())

	assert.ErrorIs(t, m.TaskbarClick("contact"), ErrWindowNotVisible)
}

func TestSnapshotIsCopy(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.Open("about"))

	snapshot := m.Snapshot()
	about := snapshot.Windows["about"]
	about.Title = "changed"
	snapshot.Windows["about"] = about

	assert.Equal(t, "About Me", mustWindow(t, m, "about").Title)

	want := map[string]Window{
		"about":    {ID: "about", Title: "About Me", IsOpen: true, Position: Point{X: 50, Y: 50}, Size: Size{Width: 600, Height: 500}, ZIndex: 2},
		"projects": {ID: "projects", Title: "Projects", Position: Point{X: 100, Y: 100}, Size: Size{Width: 700, Height: 600}, ZIndex: 1},
		"contact":  {ID: "contact", Title: "Contact", Position: Point{X: 150, Y: 150}, Size: Size{Width: 500, Height: 400}, ZIndex: 1},
		"settings": {ID: "settings", Title: "Settings", Position: Point{X: 200, Y: 200}, Size: Size{Width: 450, Height: 350}, ZIndex: 1},
	}
	if diff := cmp.Diff(want, m.Snapshot().Windows); diff != "" {
		t.Errorf("Snapshot().Windows mismatch (-want +got):\n%s", diff)
	}
}

func TestRandomOperations(t *testing.T) {
	m := newTestManager()
	ids := []string{"about", "projects", "contact", "settings"}
	titles := map[string]string{}
	for _, w := range m.Snapshot().Windows {
		titles[w.ID] = w.Title
	}

	rng := rand.New(rand.NewSource(1))
	lastMax := m.MaxZIndex()
	for i := 0; i < 500; i++ {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(6) {
		case 0:
			require.NoError(t, m.Open(id))
		case 1:
			require.NoError(t, m.Close(id))
		case 2:
			require.NoError(t, m.Minimize(id))
		case 3:
			require.NoError(t, m.Focus(id))
			snapshot := m.Snapshot()
			for other, w := range snapshot.Windows {
				if other != id {
					assert.Greater(t, snapshot.Windows[id].ZIndex, w.ZIndex)
				}
			}
		case 4:
			p := Point{X: rng.Intn(3000) - 1000, Y: rng.Intn(3000) - 1000}
			require.NoError(t, m.UpdatePosition(id, p))
			w := mustWindow(t, m, id)
			if w.Size.Width <= 1280 && w.Size.Height <= 800-24-48 {
				assert.GreaterOrEqual(t, w.Position.X, 0)
				assert.LessOrEqual(t, w.Position.X, 1280-w.Size.Width)
				assert.GreaterOrEqual(t, w.Position.Y, 24)
				assert.LessOrEqual(t, w.Position.Y, 800-w.Size.Height-48)
			}
		case 5:
			s := Size{Width: rng.Intn(1200), Height: rng.Intn(900)}
			require.NoError(t, m.UpdateSize(id, s))
			w := mustWindow(t, m, id)
			assert.Equal(t, Size{Width: max(s.Width, 300), Height: max(s.Height, 200)}, w.Size)
		}

		snapshot := m.Snapshot()
		assert.GreaterOrEqual(t, snapshot.MaxZIndex, lastMax)
		lastMax = snapshot.MaxZIndex
		for id, w := range snapshot.Windows {
			assert.Equal(t, id, w.ID)
			assert.Equal(t, titles[id], w.Title)
		}
	}
}

func TestTile(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.Open("about"))
	require.NoError(t, m.Open("projects"))
	require.NoError(t, m.Open("contact"))
	require.NoError(t, m.Minimize("contact"))

	m.Tile()

	about := mustWindow(t, m, "about")
	assert.Equal(t, Point{X: 0, Y: 24}, about.Position)
	assert.Equal(t, Size{Width: 640, Height: 728}, about.Size)

	projects := mustWindow(t, m, "projects")
	assert.Equal(t, Point{X: 640, Y: 24}, projects.Position)
	assert.Equal(t, Size{Width: 640, Height: 728}, projects.Size)

	contact := mustWindow(t, m, "contact")
	assert.Equal(t, Point{X: 150, Y: 150}, contact.Position)
}

func TestNewGrid(t *testing.T) {
	tests := []struct {
		count         int
		columns, rows int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{2, 2, 1},
		{3, 2, 2},
		{4, 2, 2},
		{5, 3, 2},
	}
	for _, tt := range tests {
		g := NewGrid(Point{}, Size{Width: 1200, Height: 600}, tt.count)
		assert.Equal(t, tt.columns, g.Columns, "count %d", tt.count)
		assert.Equal(t, tt.rows, g.Rows, "count %d", tt.count)
	}

	g := NewGrid(Point{X: 0, Y: 24}, Size{Width: 1200, Height: 600}, 3)
	p, s := g.Cell(2)
	assert.Equal(t, Point{X: 0, Y: 324}, p)
	assert.Equal(t, Size{Width: 600, Height: 300}, s)
}
