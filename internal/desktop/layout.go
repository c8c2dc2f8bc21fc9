package desktop

// Grid splits an area into equally sized cells, adding columns before rows.
type Grid struct {
	Origin   Point
	CellSize Size
	Columns  int
	Rows     int
}

func NewGrid(origin Point, area Size, count int) Grid {
	columns, rows := 0, 0
	for columns*rows < count {
		columns++
		if columns*rows >= count {
			break
		}
		rows++
	}
	if columns == 0 || rows == 0 {
		return Grid{Origin: origin}
	}

	return Grid{
		Origin:   origin,
		CellSize: Size{Width: area.Width / columns, Height: area.Height / rows},
		Columns:  columns,
		Rows:     rows,
	}
}

func (g Grid) Cell(index int) (Point, Size) {
	row, col := index/g.Columns, index%g.Columns
	return Point{
		X: g.Origin.X + col*g.CellSize.Width,
		Y: g.Origin.Y + row*g.CellSize.Height,
	}, g.CellSize
}

// Tile arranges the visible windows in a grid over the work area in taskbar order.
func (m *Manager) Tile() {
	m.mu.Lock()
	defer m.mu.Unlock()

	visible := []*Window{}
	for _, id := range m.order {
		if w := m.windows[id]; w.Visible() {
			visible = append(visible, w)
		}
	}
	if len(visible) == 0 {
		return
	}

	area := Size{
		Width:  m.cfg.Viewport.Width,
		Height: m.cfg.Viewport.Height - m.cfg.TopChrome - m.cfg.BottomChrome,
	}
	grid := NewGrid(Point{X: 0, Y: m.cfg.TopChrome}, area, len(visible))
	for i, w := range visible {
		p, s := grid.Cell(i)
		w.Size = m.floorSize(s)
		w.Position = m.clampPosition(p, w.Size)
	}
}
