package desktop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrag(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.Open("about"))
	require.NoError(t, m.Open("projects"))

	require.NoError(t, m.PointerDown("about", TargetTitleBar, Point{X: 60, Y: 60}))
	assert.Equal(t, 4, mustWindow(t, m, "about").ZIndex)
	id, ok := m.Dragging()
	assert.True(t, ok)
	assert.Equal(t, "about", id)

	require.NoError(t, m.PointerMove(Point{X: 110, Y: 210}))
	assert.Equal(t, Point{X: 100, Y: 200}, mustWindow(t, m, "about").Position)

	require.NoError(t, m.PointerMove(Point{X: 5000, Y: 5000}))
	assert.Equal(t, Point{X: 680, Y: 252}, mustWindow(t, m, "about").Position)

	m.PointerUp()
	_, ok = m.Dragging()
	assert.False(t, ok)

	require.NoError(t, m.PointerMove(Point{X: 0, Y: 0}))
	assert.Equal(t, Point{X: 680, Y: 252}, mustWindow(t, m, "about").Position)
}

func TestDragClampsAgainstResizedWindow(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.Open("about"))

	require.NoError(t, m.PointerDown("about", TargetTitleBar, Point{X: 50, Y: 50}))
	require.NoError(t, m.UpdateSize("about", Size{Width: 1000, Height: 700}))
	require.NoError(t, m.PointerMove(Point{X: 900, Y: 900}))
	m.PointerUp()

	assert.Equal(t, Point{X: 280, Y: 52}, mustWindow(t, m, "about").Position)
}

func TestResize(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.Open("about"))

	require.NoError(t, m.PointerDown("about", TargetResizeHandle, Point{X: 650, Y: 550}))
	assert.Equal(t, 3, mustWindow(t, m, "about").ZIndex)

	require.NoError(t, m.PointerMove(Point{X: 750, Y: 600}))
	assert.Equal(t, Size{Width: 700, Height: 550}, mustWindow(t, m, "about").Size)

	require.NoError(t, m.PointerMove(Point{X: 0, Y: 0}))
	assert.Equal(t, Size{Width: 300, Height: 200}, mustWindow(t, m, "about").Size)
	assert.Equal(t, Point{X: 50, Y: 50}, mustWindow(t, m, "about").Position)

	m.PointerUp()
}

func TestGestureInProgress(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.Open("about"))
	require.NoError(t, m.Open("projects"))

	require.NoError(t, m.PointerDown("about", TargetTitleBar, Point{X: 60, Y: 60}))
	assert.ErrorIs(t, m.PointerDown("projects", TargetResizeHandle, Point{X: 790, Y: 690}), ErrGestureInProgress)

	m.PointerUp()
	assert.NoError(t, m.PointerDown("projects", TargetResizeHandle, Point{X: 790, Y: 690}))
}

func TestGestureEndsWhenWindowHidden(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.Open("about"))

	require.NoError(t, m.PointerDown("about", TargetTitleBar, Point{X: 60, Y: 60}))
	require.NoError(t, m.Close("about"))

	_, ok := m.Dragging()
	assert.False(t, ok)
}

func TestPointerDownHiddenWindow(t *testing.T) {
	m := newTestManager()
	assert.ErrorIs(t, m.PointerDown("about", TargetTitleBar, Point{}), ErrWindowNotVisible)

	require.NoError(t, m.Open("about"))
	require.NoError(t, m.Minimize("about"))
	assert.ErrorIs(t, m.PointerDown("about", TargetTitleBar, Point{}), ErrWindowNotVisible)
}

func TestPointerDownUnknownTarget(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.Open("about"))

	assert.Error(t, m.PointerDown("about", Target("menu"), Point{}))
	_, ok := m.Dragging()
	assert.False(t, ok)
}

func TestParseTarget(t *testing.T) {
	target, err := ParseTarget("title")
	require.NoError(t, err)
	assert.Equal(t, TargetTitleBar, target)

	target, err = ParseTarget("resize")
	require.NoError(t, err)
	assert.Equal(t, TargetResizeHandle, target)

	_, err = ParseTarget("corner")
	assert.Error(t, err)
}
