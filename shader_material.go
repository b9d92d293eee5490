package aeno

// FragmentFunc computes an unlit fragment colour from the material uniforms
type FragmentFunc func(v Vertex, uniforms Uniforms) Color

// Uniforms are the named colour parameters of a ShaderMaterial
type Uniforms map[string]Color

// ShaderMaterial renders with a caller supplied fragment function and ignores scene lighting.
type ShaderMaterial struct {
	Dirty
	Name     string
	Uniforms Uniforms
	Fragment FragmentFunc
}

func NewShaderMaterial(uniforms Uniforms, fragment FragmentFunc) *ShaderMaterial {
	if uniforms == nil {
		uniforms = Uniforms{}
	}
	return &ShaderMaterial{Uniforms: uniforms, Fragment: fragment}
}

// ShiftedColor outputs color*0.5+0.5 at full alpha
func ShiftedColor(_ Vertex, uniforms Uniforms) Color {
	c := uniforms["color"]
	return c.MulScalar(0.5).AddScalar(0.5).Alpha(1)
}

// SetUniform replaces a uniform, marking the material dirty only on change
func (m *ShaderMaterial) SetUniform(name string, c Color) {
	if prev, ok := m.Uniforms[name]; ok && prev == c {
		return
	}
	m.Uniforms[name] = c
	m.MarkDirty()
}

func (m *ShaderMaterial) Uniform(name string) (Color, bool) {
	c, ok := m.Uniforms[name]
	return c, ok
}

func (m *ShaderMaterial) upload() {
	m.needsUpdate = false
}

func (m *ShaderMaterial) Shader(env *Environment) Shader {
	return &customShader{env: env, m: m}
}

type customShader struct {
	env *Environment
	m   *ShaderMaterial
}

func (s *customShader) Vertex(v Vertex) Vertex {
	return s.env.transform(v)
}

func (s *customShader) Fragment(v Vertex) Color {
	if s.m.Fragment == nil {
		return s.m.Uniforms["color"]
	}
	return s.m.Fragment(v, s.m.Uniforms)
}
