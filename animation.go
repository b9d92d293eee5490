package aeno

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl64"
)

type Interpolation int

const (
	InterpolateLinear Interpolation = iota
	InterpolateStep
	InterpolateCubicSpline
)

// TrackPath names the object property a track drives
type TrackPath int

const (
	PathTranslation TrackPath = iota
	PathRotation
	PathScale
)

func (p TrackPath) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	case PathScale:
		return "scale"
	}
	return "unknown"
}

// Track is a keyframed property of one named object.
// Values are flattened: 3 components per key, 4 for rotation (x, y, z, w).
// Cubic spline tracks store in-tangent, value and out-tangent for every key.
type Track struct {
	Node          string
	Path          TrackPath
	Interpolation Interpolation
	Times         []float32
	Values        []float32
}

func (t *Track) components() int {
	if t.Path == PathRotation {
		return 4
	}
	return 3
}

// Duration is the time of the last key
func (t *Track) Duration() float32 {
	if len(t.Times) == 0 {
		return 0
	}
	return t.Times[len(t.Times)-1]
}

func (t *Track) stride() int {
	if t.Interpolation == InterpolateCubicSpline {
		return 3 * t.components()
	}
	return t.components()
}

// valid reports whether the value slice matches the key count
func (t *Track) valid() bool {
	return len(t.Times) > 0 && len(t.Values) >= len(t.Times)*t.stride()
}

func (t *Track) key(i int) []float32 {
	c := t.components()
	off := i * t.stride()
	if t.Interpolation == InterpolateCubicSpline {
		off += c
	}
	return t.Values[off : off+c]
}

func (t *Track) inTangent(i int) []float32 {
	off := i * t.stride()
	return t.Values[off : off+t.components()]
}

func (t *Track) outTangent(i int) []float32 {
	c := t.components()
	off := i*t.stride() + 2*c
	return t.Values[off : off+c]
}

// Sample evaluates the track at time, clamping outside the key range
func (t *Track) Sample(time float64) []float64 {
	out := make([]float64, t.components())
	if !t.valid() {
		return out
	}
	n := len(t.Times)
	tt := float32(time)
	if n == 1 || tt <= t.Times[0] {
		return widen(out, t.key(0))
	}
	if tt >= t.Times[n-1] {
		return widen(out, t.key(n-1))
	}
	i := sort.Search(n, func(i int) bool { return t.Times[i] > tt }) - 1
	t0, t1 := t.Times[i], t.Times[i+1]
	dt := t1 - t0
	s := float32(0)
	if dt > 0 {
		s = math32.Min(math32.Max((tt-t0)/dt, 0), 1)
	}

	switch t.Interpolation {
	case InterpolateStep:
		return widen(out, t.key(i))
	case InterpolateCubicSpline:
		v0, b0 := t.key(i), t.outTangent(i)
		v1, a1 := t.key(i+1), t.inTangent(i+1)
		s2 := s * s
		s3 := s2 * s
		h00 := 2*s3 - 3*s2 + 1
		h10 := s3 - 2*s2 + s
		h01 := -2*s3 + 3*s2
		h11 := s3 - s2
		for k := range out {
			out[k] = float64(h00*v0[k] + h10*dt*b0[k] + h01*v1[k] + h11*dt*a1[k])
		}
		if t.Path == PathRotation {
			return quatSlice(sliceQuat(out).Normalize())
		}
		return out
	}

	a, b := t.key(i), t.key(i+1)
	if t.Path == PathRotation {
		q0 := sliceQuat(widen(make([]float64, 4), a))
		q1 := sliceQuat(widen(make([]float64, 4), b))
		return quatSlice(mgl64.QuatSlerp(q0, q1, float64(s)).Normalize())
	}
	for k := range out {
		out[k] = float64(a[k] + (b[k]-a[k])*s)
	}
	return out
}

// apply writes the sampled value to o
func (t *Track) apply(o *Object, time float64) {
	v := t.Sample(time)
	switch t.Path {
	case PathTranslation:
		o.Position = Vector{v[0], v[1], v[2]}
	case PathScale:
		o.Scale = Vector{v[0], v[1], v[2]}
	case PathRotation:
		o.Rotation = sliceQuat(v)
	}
}

func widen(dst []float64, src []float32) []float64 {
	for i := range dst {
		dst[i] = float64(src[i])
	}
	return dst
}

// sliceQuat reads glTF (x, y, z, w) order
func sliceQuat(v []float64) mgl64.Quat {
	return mgl64.Quat{W: v[3], V: mgl64.Vec3{v[0], v[1], v[2]}}
}

func quatSlice(q mgl64.Quat) []float64 {
	return []float64{q.V[0], q.V[1], q.V[2], q.W}
}

// Clip is a named set of tracks, immutable once loaded
type Clip struct {
	Name     string
	Duration float64
	Tracks   []*Track
}

// NewClip derives the duration from the longest track
func NewClip(name string, tracks []*Track) *Clip {
	c := &Clip{Name: name, Tracks: tracks}
	for _, t := range tracks {
		if d := float64(t.Duration()); d > c.Duration {
			c.Duration = d
		}
	}
	return c
}

// FindClip returns the clip with an exactly matching name, or nil
func FindClip(clips []*Clip, name string) *Clip {
	for _, c := range clips {
		if c.Name == name {
			return c
		}
	}
	return nil
}
