package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aeno "github.com/netisu/aeno-showcase"
)

func TestControlsBeforeLoad(t *testing.T) {
	sc := NewSceneContext(4.0 / 3)
	before := describe(sc)
	p := NewControlPanel(sc)
	for _, c := range Controls() {
		for _, v := range []float64{c.Min, c.Value, c.Max} {
			applied, err := p.Input(c.ID, v)
			require.NoError(t, err, c.ID)
			assert.False(t, applied, c.ID)
		}
	}
	assert.Equal(t, before, describe(sc))
}

func TestCubeSpeed(t *testing.T) {
	sc := NewSceneContext(1)
	sc.AttachSceneAsset(fullSceneAsset())
	p := NewControlPanel(sc)

	for _, v := range []float64{0, 0.1, 1.7, 5} {
		assert.True(t, p.SetCubeSpeed(v))
		m, ok := sc.CubeMixer.Get()
		require.True(t, ok)
		assert.Equal(t, v, m.TimeScale)
	}
	sphere, _ := sc.SphereMixer.Get()
	assert.Equal(t, 1.0, sphere.TimeScale, "cube speed leaves the sphere alone")

	applied, err := p.InputString(SphereSpeed, " 2.5 ")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 2.5, sphere.TimeScale)
}

func TestSphereShader(t *testing.T) {
	sc := NewSceneContext(1)
	sc.AttachSceneAsset(fullSceneAsset())
	p := NewControlPanel(sc)

	m, ok := sc.SphereMaterial.Get()
	require.True(t, ok)
	assert.Equal(t, aeno.HexInt(0x44aa88), m.Uniforms["color"])
	assert.Same(t, m, sc.Scene.ObjectByName(SphereName).Material)

	for _, v := range []float64{0, 0.25, 1} {
		assert.True(t, p.SetSphereShader(v))
		got, _ := m.Uniform("color")
		assert.Equal(t, aeno.Color{R: v, G: 0.5, B: 1 - v, A: 1}, got)
	}

	v := m.Version()
	p.SetSphereShader(1)
	assert.Equal(t, v, m.Version(), "repeating a value is not a change")
}

func TestConeColour(t *testing.T) {
	sc := NewSceneContext(1)
	sc.AttachConeAsset(coneAsset(ConeName))
	p := NewControlPanel(sc)

	cone := sc.Scene.ObjectByName(ConeName)
	require.NotNil(t, cone)
	assert.Equal(t, 2.0, cone.Position.X)

	assert.True(t, p.SetConeColour(0.25))
	m := cone.Material.(*aeno.StandardMaterial)
	assert.Equal(t, aeno.Color{R: 0.25, G: 0.5, B: 0.75, A: 1}, m.Color)
	assert.True(t, m.NeedsUpdate())
}

func TestConeMissing(t *testing.T) {
	sc := NewSceneContext(1)
	sc.AttachConeAsset(coneAsset("Pyramid"))
	p := NewControlPanel(sc)

	before := describe(sc)
	for _, v := range []float64{0, 0.5, 1} {
		applied, err := p.Input(ConeColour, v)
		require.NoError(t, err)
		assert.False(t, applied)
	}
	assert.Equal(t, before, describe(sc))
	assert.Equal(t, 0.0, sc.Scene.ObjectByName("Pyramid").Position.X)
}

func TestCubeTexture(t *testing.T) {
	sc := NewSceneContext(1)
	cubes := sc.AttachSceneAsset(fullSceneAsset())
	require.Len(t, cubes, 1)
	cube := cubes[0]
	p := NewControlPanel(sc)
	assert.False(t, p.SetCubeTexture(4), "texture not loaded yet")

	tex := patternTexture()
	require.True(t, sc.BindCubeTexture(cubes, tex))
	assert.Same(t, tex, cube.Material.(*aeno.StandardMaterial).Map)

	assert.True(t, p.SetCubeTexture(4))
	assert.Equal(t, [2]float64{4, 4}, tex.Repeat)

	plain := aeno.NewMeshObject("plain", quad(), aeno.NewShaderMaterial(nil, nil))
	other := NewSceneContext(1)
	assert.False(t, other.BindCubeTexture([]*aeno.Object{plain}, tex))
	assert.False(t, other.CubeTexture.Present())
}

func TestMissingClips(t *testing.T) {
	sc := NewSceneContext(1)
	sc.AttachSceneAsset(sceneAsset("cubeaction", "Idle"))
	assert.False(t, sc.CubeMixer.Present())
	assert.False(t, sc.SphereMixer.Present())
	assert.True(t, sc.SphereMaterial.Present(), "materials do not depend on clips")

	p := NewControlPanel(sc)
	assert.False(t, p.SetCubeSpeed(2))
	assert.False(t, p.SetSphereSpeed(2))
	assert.Empty(t, sc.Mixers())
}

func TestInputErrors(t *testing.T) {
	p := NewControlPanel(NewSceneContext(1))
	_, err := p.Input("cube-speed", 1)
	assert.ErrorIs(t, err, ErrUnknownControl)

	_, err = p.InputString(CubeSpeed, "fast")
	assert.Error(t, err)
	_, err = p.InputString(CubeSpeed, "NaN")
	assert.Error(t, err)
	_, err = p.InputString(CubeSpeed, "+Inf")
	assert.Error(t, err)

	assert.True(t, IsControl(ConeColour))
	assert.False(t, IsControl("cone-color"))
}

func TestRamp(t *testing.T) {
	assert.Equal(t, aeno.RGB(0, 0.5, 1), Ramp(0))
	assert.Equal(t, aeno.RGB(1, 0.5, 0), Ramp(1))
}
