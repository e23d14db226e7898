package mapgen

import (
	"github.com/neontwilight/sim/internal/gamemap"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseParams drives the fractal terrain stage.
type NoiseParams struct {
	Seed          int64
	Octaves       int
	Gain          float64
	Lacunarity    float64
	Frequency     float64
	Scale         float64
	TreeThreshold float64
}

func DefaultNoiseParams() NoiseParams {
	return NoiseParams{
		Seed:          10001,
		Octaves:       5,
		Gain:          0.6,
		Lacunarity:    2.0,
		Frequency:     2.0,
		Scale:         255,
		TreeThreshold: 140,
	}
}

// fbm sums octaves of simplex noise, each octave with its own seed, and
// normalises by the total amplitude.
type fbm struct {
	octaves []opensimplex.Noise
	p       NoiseParams
	bound   float64
}

func newFBM(p NoiseParams) *fbm {
	n := max(p.Octaves, 1)
	f := &fbm{p: p, octaves: make([]opensimplex.Noise, n)}
	amp := 1.0
	total := 0.0
	for i := range f.octaves {
		f.octaves[i] = opensimplex.New(p.Seed + int64(i))
		total += amp
		amp *= p.Gain
	}
	f.bound = 1 / total
	return f
}

func (f *fbm) eval(x, y float64) float64 {
	x *= f.p.Frequency
	y *= f.p.Frequency
	sum := 0.0
	amp := 1.0
	for _, o := range f.octaves {
		sum += o.Eval2(x, y) * amp
		x *= f.p.Lacunarity
		y *= f.p.Lacunarity
		amp *= f.p.Gain
	}
	return sum * f.bound
}

// buildNoiseTerrain thresholds scaled noise into Grass or Tree and rings the
// map with Wall.
func buildNoiseTerrain(bm *BuilderMap, p NoiseParams) {
	m := bm.Map
	noise := newFBM(p)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			n := noise.eval(float64(x), float64(y)) * p.Scale
			if n > p.TreeThreshold {
				m.SetTile(x, y, gamemap.Tree)
			} else {
				m.SetTile(x, y, gamemap.Grass)
			}
		}
	}
	for x := 0; x < m.Width; x++ {
		m.SetTile(x, 0, gamemap.Wall)
		m.SetTile(x, m.Height-1, gamemap.Wall)
	}
	for y := 0; y < m.Height; y++ {
		m.SetTile(0, y, gamemap.Wall)
		m.SetTile(m.Width-1, y, gamemap.Wall)
	}
}
