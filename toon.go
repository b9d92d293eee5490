package aeno

import (
	"math"
	"sort"
)

// ToonStep maps every light intensity above Threshold to a flat tint
type ToonStep struct {
	Threshold float64
	Color     Color
}

// ToonMaterial implements cel shading: light intensity is snapped to the
// tint of the highest step it exceeds.
type ToonMaterial struct {
	Dirty
	Name  string
	Color Color
	Map   Texture
	Steps []ToonStep
}

func NewToonMaterial(c Color) *ToonMaterial {
	m := &ToonMaterial{
		Color: c,
		Steps: []ToonStep{
			{0.8, HexColor("ffffaa")}, // highlight
			{0.5, HexColor("ff8844")},
			{0.2, HexColor("a12c00")},
			{0, HexColor("4d1100")}, // deep shadow
		},
	}
	m.MarkDirty()
	return m
}

// NeedsUpdate also reports a dirty colour map
func (m *ToonMaterial) NeedsUpdate() bool {
	if t, ok := m.Map.(*ImageTexture); ok && t.NeedsUpdate() {
		return true
	}
	return m.needsUpdate
}

// upload sorts the steps so the shader can stop at the first match
func (m *ToonMaterial) upload() {
	sort.SliceStable(m.Steps, func(i, j int) bool { return m.Steps[i].Threshold > m.Steps[j].Threshold })
	if t, ok := m.Map.(*ImageTexture); ok && t.NeedsUpdate() {
		t.upload()
	}
	m.needsUpdate = false
}

func (m *ToonMaterial) Shader(env *Environment) Shader {
	return &toonShader{env: env, m: m}
}

type toonShader struct {
	env *Environment
	m   *ToonMaterial
}

func (s *toonShader) Vertex(v Vertex) Vertex {
	return s.env.transform(v)
}

// tint returns the step colour for intensity; below every threshold it is the last step
func (s *toonShader) tint(intensity float64) Color {
	steps := s.m.Steps
	if len(steps) == 0 {
		return White
	}
	for _, st := range steps {
		if intensity > st.Threshold {
			return st.Color
		}
	}
	return steps[len(steps)-1].Color
}

func (s *toonShader) Fragment(v Vertex) Color {
	intensity := 0.0
	for _, d := range s.env.Lighting.Directional {
		intensity = math.Max(intensity, v.Normal.Dot(d.Direction))
	}
	c := s.m.Color
	if s.m.Map != nil {
		c = c.Mul(s.m.Map.Sample(v.Texture.X, v.Texture.Y))
	}
	return c.Mul(s.tint(intensity)).Alpha(c.A)
}
