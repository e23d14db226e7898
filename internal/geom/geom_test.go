package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectBasics(t *testing.T) {
	r := NewRect(2, 3, 10, 4)
	assert.Equal(t, Rect{X1: 2, Y1: 3, X2: 12, Y2: 7}, r)
	assert.Equal(t, 40, r.Area())
	assert.Equal(t, Point{7, 5}, r.Center())
	assert.Equal(t, Rect{X1: 0, Y1: 1, X2: 14, Y2: 9}, r.Expand(2))
	assert.True(t, r.Contains(Point{2, 3}))
	assert.False(t, r.Contains(Point{12, 3}))
}

func TestRectIntersect(t *testing.T) {
	a := NewRect(0, 0, 5, 5)
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlap", NewRect(3, 3, 5, 5), true},
		{"touching edge", NewRect(5, 0, 5, 5), true},
		{"apart", NewRect(6, 6, 2, 2), false},
		{"inside", NewRect(1, 1, 1, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Intersect(tt.b))
			assert.Equal(t, tt.want, tt.b.Intersect(a))
		})
	}
}

func TestDistances(t *testing.T) {
	a, b := Point{1, 1}, Point{4, 5}
	assert.Equal(t, 4, Chebyshev(a, b))
	assert.Equal(t, 25, Distance2DSquared(a, b))
	assert.InDelta(t, 5.0, Distance2D(a, b), 1e-9)
	assert.Equal(t, 0, Chebyshev(a, a))
}
