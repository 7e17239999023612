package selection

// Movement is a keyboard navigation step.
type Movement int

const (
	MoveLeft Movement = iota
	MoveRight
	MoveUp
	MoveDown
	MoveHome
	MoveEnd
)

// target returns the index reached from current in a list of n entries laid
// out in columns, clamped to the list. With no current index the first entry
// is the target. None means there is nowhere to go.
func (m Movement) target(current, columns, n int) int {
	if n == 0 {
		return None
	}
	if columns < 1 {
		columns = 1
	}
	if current == None {
		if m == MoveEnd {
			return n - 1
		}
		return 0
	}

	next := current
	switch m {
	case MoveLeft:
		next--
	case MoveRight:
		next++
	case MoveUp:
		next -= columns
	case MoveDown:
		next += columns
	case MoveHome:
		next = 0
	case MoveEnd:
		next = n - 1
	}
	return min(max(next, 0), n-1)
}

// ZoomLevels scale the grid cell.
var ZoomLevels = []float32{
	0.75,
	1.0,
	1.25,
	1.5,
	1.75,
	2.0,
}

const DefaultZoomLevel = 1 // 1.0

const (
	iconSize = 64
	// CellWidth is the grid cell width at zoom 1.0.
	CellWidth = iconSize * 1.8
)

func ClampZoomLevel(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(ZoomLevels) {
		return len(ZoomLevels) - 1
	}
	return i
}

// Columns returns how many cells fit in width at the given zoom level.
// There is always at least one column.
func Columns(width float32, zoomLevel int, padding float32) int {
	cell := CellWidth * ZoomLevels[ClampZoomLevel(zoomLevel)]
	cols := int((width + padding) / (cell + padding))
	if cols < 1 {
		return 1
	}
	return cols
}

// Rect is an axis aligned rectangle in content coordinates.
type Rect struct {
	X1, Y1, X2, Y2 float32
}

func (r Rect) normalized() Rect {
	if r.X1 > r.X2 {
		r.X1, r.X2 = r.X2, r.X1
	}
	if r.Y1 > r.Y2 {
		r.Y1, r.Y2 = r.Y2, r.Y1
	}
	return r
}

// RectIndices returns the indices of the grid cells a rubber band rectangle
// touches, in list order. Feed the result to SelectMultiple.
func RectIndices(band Rect, cellW, cellH, pad float32, cols, n int) []int {
	if n == 0 || cellW <= 0 || cellH <= 0 {
		return nil
	}
	if cols < 1 {
		cols = 1
	}
	band = band.normalized()
	stepX := cellW + pad
	stepY := cellH + pad

	// Only visit the rows and columns the rectangle can reach.
	startRow := int(band.Y1 / stepY)
	endRow := int(band.Y2 / stepY)
	maxRow := (n - 1) / cols
	startRow = max(startRow, 0)
	endRow = min(endRow, maxRow)

	startCol := max(int(band.X1/stepX), 0)
	endCol := min(int(band.X2/stepX), cols-1)

	var ids []int
	for row := startRow; row <= endRow; row++ {
		for col := startCol; col <= endCol; col++ {
			i := row*cols + col
			if i >= n {
				continue
			}
			x1 := float32(col) * stepX
			y1 := float32(row) * stepY
			x2 := x1 + cellW
			y2 := y1 + cellH
			if x1 < band.X2 && x2 > band.X1 && y1 < band.Y2 && y2 > band.Y1 {
				ids = append(ids, i)
			}
		}
	}
	return ids
}
