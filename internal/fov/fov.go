// Package fov computes field of view with recursive shadow-casting over
// eight octants.
package fov

import "math"

// Octant transform multipliers, one column per octant.
var (
	mult0 = [8]int{1, 0, 0, -1, -1, 0, 0, 1}
	mult1 = [8]int{0, 1, -1, 0, 0, -1, 1, 0}
	mult2 = [8]int{0, 1, 1, 0, 0, -1, -1, 0}
	mult3 = [8]int{1, 0, 0, 1, -1, 0, 0, -1}
)

// MapData holds the transparency input and the visibility output of a
// computation. Both arrays are indexed y*Width+x.
type MapData struct {
	Width       int
	Height      int
	Transparent []bool
	FOV         []bool
}

// NewMapData returns a fully transparent map with an empty field of view.
func NewMapData(width, height int) *MapData {
	md := &MapData{
		Width:       width,
		Height:      height,
		Transparent: make([]bool, width*height),
		FOV:         make([]bool, width*height),
	}
	for i := range md.Transparent {
		md.Transparent[i] = true
	}
	return md
}

// ClearFOV resets every tile to not visible. Compute does not clear.
func (md *MapData) ClearFOV() {
	clear(md.FOV)
}

func (md *MapData) IsInFOV(x, y int) bool { return md.FOV[x+y*md.Width] }

func (md *MapData) IsTransparent(x, y int) bool { return md.Transparent[x+y*md.Width] }

func (md *MapData) SetFOV(x, y int, visible bool) { md.FOV[x+y*md.Width] = visible }

func (md *MapData) SetTransparent(x, y int, transparent bool) {
	md.Transparent[x+y*md.Width] = transparent
}

// VisibleCount returns the number of tiles currently in view.
func (md *MapData) VisibleCount() int {
	n := 0
	for _, v := range md.FOV {
		if v {
			n++
		}
	}
	return n
}

// Compute marks the tiles visible from (x,y) within maxRadius. A radius of 0
// means unbounded. With lightWalls the opaque tiles bordering the visible
// area are also marked. The origin is always visible.
func Compute(md *MapData, x, y, maxRadius int, lightWalls bool) {
	if maxRadius == 0 {
		rx := max(md.Width-x, x)
		ry := max(md.Height-y, y)
		maxRadius = int(math.Sqrt(float64(rx*rx+ry*ry))) + 1
	}
	r2 := maxRadius * maxRadius
	for oct := 0; oct < 8; oct++ {
		castLight(md, x, y, 1, 1.0, 0.0, maxRadius, r2,
			mult0[oct], mult1[oct], mult2[oct], mult3[oct], lightWalls)
	}
	md.FOV[x+y*md.Width] = true
}

func castLight(md *MapData, cx, cy, row int, start, end float32, radius, r2, xx, xy, yx, yy int, lightWalls bool) {
	if start < end {
		return
	}
	var newStart float32
	for j := row; j <= radius; j++ {
		dx := -j - 1
		dy := -j
		blocked := false
		for dx <= 0 {
			dx++
			curX := cx + dx*xx + dy*xy
			curY := cy + dx*yx + dy*yy
			if curX < 0 || curX >= md.Width || curY < 0 || curY >= md.Height {
				continue
			}
			off := curX + curY*md.Width
			lSlope := (float32(dx) - 0.5) / (float32(dy) + 0.5)
			rSlope := (float32(dx) + 0.5) / (float32(dy) - 0.5)
			if start < rSlope {
				continue
			} else if end > lSlope {
				break
			}
			if dx*dx+dy*dy <= r2 && (lightWalls || md.Transparent[off]) {
				md.FOV[off] = true
			}
			if blocked {
				if !md.Transparent[off] {
					newStart = rSlope
					continue
				}
				blocked = false
				start = newStart
			} else if !md.Transparent[off] && j < radius {
				blocked = true
				castLight(md, cx, cy, j+1, start, lSlope, radius, r2, xx, xy, yx, yy, lightWalls)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}
