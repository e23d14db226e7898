package mapgen

import (
	"github.com/neontwilight/sim/internal/gamemap"
	"github.com/neontwilight/sim/internal/geom"
)

// histRect is a candidate rectangle found on one histogram row.
type histRect struct {
	area, height, width, x, y int
}

// buildLargestRect publishes the largest all-Grass rectangle as the single
// submap and paves it with Floor.
func buildLargestRect(bm *BuilderMap) {
	r := LargestGrassRect(bm.Map)
	bm.Submaps = []geom.Rect{r}

	m := bm.Map
	maxY := min(r.Y2, m.Height)
	maxX := min(r.X2, m.Width)
	for y := r.Y1; y < maxY; y++ {
		for x := r.X1; x < maxX; x++ {
			m.SetTile(x, y, gamemap.Floor)
		}
	}
}

// LargestGrassRect finds the largest axis-aligned rectangle made only of
// Grass tiles. Ties go to the rectangle whose bottom row is highest up; a map
// without Grass yields the zero rect.
func LargestGrassRect(m *gamemap.Map) geom.Rect {
	rows := grassRunsPerRow(m)

	var best histRect
	for y := len(rows) - 1; y >= 0; y-- {
		r := maxRectangleHistogram(rows[y], y)
		if r.area >= best.area {
			best = r
		}
	}
	if best.area == 0 {
		return geom.Rect{}
	}
	return geom.NewRect(best.x, best.y, best.width, best.height)
}

// grassRunsPerRow returns, for each row y and column x, the number of
// consecutive Grass tiles in column x ending at row y.
func grassRunsPerRow(m *gamemap.Map) [][]int {
	rows := make([][]int, m.Height)
	for y := range rows {
		rows[y] = make([]int, m.Width)
		for x := 0; x < m.Width; x++ {
			if m.Tile(x, y) != gamemap.Grass {
				continue
			}
			above := 0
			if y > 0 {
				above = rows[y-1][x]
			}
			rows[y][x] = above + 1
		}
	}
	return rows
}

// maxRectangleHistogram solves largest-rectangle-in-histogram with a
// monotonic stack. The histogram is padded with -1 on both ends so the stack
// never empties. row is the y of the histogram's base.
func maxRectangleHistogram(hist []int, row int) histRect {
	v := make([]int, 0, len(hist)+2)
	v = append(v, -1)
	v = append(v, hist...)
	v = append(v, -1)

	stack := []int{0}
	var best histRect
	for i, h := range v {
		if h > v[stack[len(stack)-1]] {
			stack = append(stack, i)
			continue
		}
		for h < v[stack[len(stack)-1]] {
			bar := v[stack[len(stack)-1]]
			stack = stack[:len(stack)-1]
			width := i - 1 - stack[len(stack)-1]
			area := bar * width
			if area > best.area {
				// v is offset by the leading sentinel
				best = histRect{
					area:   area,
					height: bar,
					width:  width,
					x:      i - width - 1,
					y:      row - bar + 1,
				}
			}
		}
		stack = append(stack, i)
	}
	return best
}
