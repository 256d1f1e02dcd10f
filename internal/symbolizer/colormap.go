package symbolizer

import "sort"

// ColorMap maps a scalar sample value to an RGB triple (§4.8).
type ColorMap interface {
	Eval(v float64) (r, g, b byte)
}

// Categorize is a step-function ColorMap: ordered thresholds partition
// the value domain into len(Thresholds)+1 intervals, each with its own
// color. The first interval already covers (-inf, Thresholds[0]), so
// Default only applies when Colors has no entry for v's interval
// (Colors shorter than len(Thresholds)+1, or empty).
type Categorize struct {
	Thresholds []float64
	Colors     [][3]byte
	Default    [3]byte
}

// Eval returns Colors[i] where i is the count of thresholds v is at or
// above (a plain ordered step function).
func (c *Categorize) Eval(v float64) (r, g, b byte) {
	i := sort.SearchFloat64s(c.Thresholds, v)
	// SearchFloat64s returns the first index whose threshold is >= v;
	// values exactly equal to a threshold belong to the interval that
	// starts at it, so advance past equal matches.
	for i < len(c.Thresholds) && c.Thresholds[i] == v {
		i++
	}
	if i >= len(c.Colors) {
		return c.Default[0], c.Default[1], c.Default[2]
	}
	col := c.Colors[i]
	return col[0], col[1], col[2]
}

// Stop is one value/color pair in an Interpolate color map.
type Stop struct {
	Value float64
	Color [3]byte
}

// Interpolate is a piecewise-linear ColorMap over ordered Stops (§4.8).
type Interpolate struct {
	Stops []Stop
}

// Eval returns the componentwise linear interpolation between the two
// Stops bracketing v, clamping to the first/last Stop's color outside
// the stop range.
func (m *Interpolate) Eval(v float64) (r, g, b byte) {
	stops := m.Stops
	if len(stops) == 0 {
		return 0, 0, 0
	}
	if v <= stops[0].Value {
		c := stops[0].Color
		return c[0], c[1], c[2]
	}
	if v >= stops[len(stops)-1].Value {
		c := stops[len(stops)-1].Color
		return c[0], c[1], c[2]
	}
	for i := 1; i < len(stops); i++ {
		if v <= stops[i].Value {
			lo, hi := stops[i-1], stops[i]
			t := (v - lo.Value) / (hi.Value - lo.Value)
			return lerpByte(lo.Color[0], hi.Color[0], t),
				lerpByte(lo.Color[1], hi.Color[1], t),
				lerpByte(lo.Color[2], hi.Color[2], t)
		}
	}
	c := stops[len(stops)-1].Color
	return c[0], c[1], c[2]
}

func lerpByte(a, b byte, t float64) byte {
	v := float64(a) + (float64(b)-float64(a))*t
	return clampByte(v + 0.5)
}

// Table precomputes a 256-entry RGB lookup table keyed by the same
// scaledIndex used for contrast LUTs, accelerating repeated Eval calls
// over a tile's full pixel range (§4.8: "A 256-entry precomputed table
// ... accelerates lookup").
func Table(m ColorMap, min, max float64) [256][3]byte {
	var t [256][3]byte
	scale := (max - min) / 255
	if scale == 0 {
		scale = 1
	}
	for i := 0; i < 256; i++ {
		v := min + float64(i)*scale
		r, g, b := m.Eval(v)
		t[i] = [3]byte{r, g, b}
	}
	return t
}
