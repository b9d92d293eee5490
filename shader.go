package aeno

import (
	"math"
)

// Shader shader interface
type Shader interface {
	Vertex(Vertex) Vertex
	Fragment(Vertex) Color
}

// Material builds the shader used to draw one object
type Material interface {
	Shader(env *Environment) Shader
	NeedsUpdate() bool
	upload()
}

// Environment carries the per-draw transforms and the scene lighting
type Environment struct {
	Model          Matrix
	ViewProjection Matrix
	CameraPosition Vector
	Lighting       Lighting
	mvp            Matrix
	normalMatrix   Matrix
}

func newEnvironment(model, viewProjection Matrix, camera Vector, lighting Lighting) *Environment {
	return &Environment{
		Model:          model,
		ViewProjection: viewProjection,
		CameraPosition: camera,
		Lighting:       lighting,
		mvp:            viewProjection.Mul(model),
		normalMatrix:   model.Inverse().Transpose(),
	}
}

// transform is the vertex stage shared by every material.
// Position and Normal leave it in world space.
func (env *Environment) transform(v Vertex) Vertex {
	v.Output = env.mvp.MulPositionW(v.Position)
	v.Position = env.Model.MulPosition(v.Position)
	v.Normal = env.normalMatrix.MulDirection(v.Normal)
	return v
}

// Dirty tracks whether renderer-side state must be refreshed
type Dirty struct {
	needsUpdate bool
	version     uint64
}

// MarkDirty flags the resource for re-upload on the next draw
func (d *Dirty) MarkDirty() {
	d.needsUpdate = true
	d.version++
}

func (d *Dirty) NeedsUpdate() bool {
	return d.needsUpdate
}

// Version counts MarkDirty calls
func (d *Dirty) Version() uint64 {
	return d.version
}

// StandardMaterial implements Phong shading with an optional colour map.
type StandardMaterial struct {
	Dirty
	Name           string
	Color          Color
	Map            Texture
	SpecularColor  Color
	SpecularPower  float64
	UseVertexColor bool
	EnableOutline  bool    // A switch to turn the effect on/off
	OutlineColor   Color   // The color of the outline
	OutlineFactor  float64 // Controls line thickness (lower is thicker)
}

// NewStandardMaterial returns an untextured Phong material
func NewStandardMaterial(color Color) *StandardMaterial {
	return &StandardMaterial{
		Color:         color,
		SpecularColor: White,
		SpecularPower: 0,
		OutlineColor:  HexColor("000000"),
		OutlineFactor: 0.05,
	}
}

// SetColor replaces the base colour, marking the material dirty only on change
func (m *StandardMaterial) SetColor(c Color) {
	if m.Color == c {
		return
	}
	m.Color = c
	m.MarkDirty()
}

// SetMap assigns the colour map
func (m *StandardMaterial) SetMap(t Texture) {
	m.Map = t
	m.MarkDirty()
}

// NeedsUpdate also reports a dirty colour map
func (m *StandardMaterial) NeedsUpdate() bool {
	if t, ok := m.Map.(*ImageTexture); ok && t.NeedsUpdate() {
		return true
	}
	return m.needsUpdate
}

func (m *StandardMaterial) upload() {
	if t, ok := m.Map.(*ImageTexture); ok && t.NeedsUpdate() {
		t.upload()
	}
	m.needsUpdate = false
}

func (m *StandardMaterial) Shader(env *Environment) Shader {
	return &phongShader{env: env, m: m}
}

type phongShader struct {
	env *Environment
	m   *StandardMaterial
}

func (shader *phongShader) Vertex(v Vertex) Vertex {
	return shader.env.transform(v)
}

func (shader *phongShader) Fragment(v Vertex) Color {
	m := shader.m
	if m.EnableOutline {
		viewDirection := shader.env.CameraPosition.Sub(v.Position).Normalize()
		dot := viewDirection.Dot(v.Normal)

		// If the surface normal is nearly perpendicular to the view direction, it's an edge.
		if math.Abs(dot) < m.OutlineFactor {
			return m.OutlineColor
		}
	}
	if m.UseVertexColor {
		return v.Color
	}

	color := m.Color
	if m.Map != nil {
		sample := m.Map.Sample(v.Texture.X, v.Texture.Y)
		color = color.Mul(sample)
	}
	lighting := shader.env.Lighting
	light := lighting.Ambient
	for _, d := range lighting.Directional {
		diffuse := math.Max(v.Normal.Dot(d.Direction), 0)
		light = light.Add(d.Color.MulScalar(diffuse))
		if diffuse > 0 && m.SpecularPower > 0 {
			camera := shader.env.CameraPosition.Sub(v.Position).Normalize()
			reflected := d.Direction.Reflect(v.Normal)
			specular := math.Max(camera.Dot(reflected), 0)
			if specular > 0 {
				specular = math.Pow(specular, m.SpecularPower)
				light = light.Add(m.SpecularColor.MulScalar(specular))
			}
		}
	}
	return color.Mul(light).Min(White).Alpha(color.A)
}
