package viewer

import (
	aeno "github.com/netisu/aeno-showcase"
)

const (
	sphereUniform = "color"
	coneX         = 2.0
)

var (
	sphereColor    = aeno.HexInt(0x44aa88)
	ambientColor   = aeno.HexInt(0x404040)
	lightPosition  = aeno.V(0, 1, 1)
	cameraPosition = aeno.V(3, 1, 5)
)

// AttachSceneAsset adds the cube and sphere asset to its slot and wires
// whatever it finds. It returns every mesh named Cube, in traversal order;
// they all share the texture once it arrives.
func (sc *SceneContext) AttachSceneAsset(a *aeno.Asset) []*aeno.Object {
	model := a.Scene
	sc.cubeSlot.Add(model)

	if cube := model.ObjectByName(CubeName); cube != nil {
		if clip := aeno.FindClip(a.Animations, CubeClip); clip != nil {
			m := aeno.NewMixer(cube)
			m.ClipAction(clip).Play()
			sc.CubeMixer.Set(m)
		}
	}
	if sphere := model.ObjectByName(SphereName); sphere != nil {
		if clip := aeno.FindClip(a.Animations, SphereClip); clip != nil {
			m := aeno.NewMixer(sphere)
			m.ClipAction(clip).Play()
			sc.SphereMixer.Set(m)
		}
	}

	var cubes []*aeno.Object
	model.Traverse(func(o *aeno.Object) bool {
		if !o.IsMesh() {
			return true
		}
		switch o.Name {
		case CubeName:
			cubes = append(cubes, o)
		case SphereName:
			m := NewSphereMaterial()
			o.Material = m
			sc.SphereMaterial.Set(m)
		}
		return true
	})

	sc.stage()
	return cubes
}

// NewSphereMaterial is the unlit colour-shift material applied to the Sphere
func NewSphereMaterial() *aeno.ShaderMaterial {
	m := aeno.NewShaderMaterial(aeno.Uniforms{sphereUniform: sphereColor}, aeno.ShiftedColor)
	m.Name = "sphere-shader"
	return m
}

// BindCubeTexture assigns a loaded texture as the colour map of each cube.
// Cubes without a StandardMaterial are left untouched; the handle is only
// kept when at least one cube took the texture.
func (sc *SceneContext) BindCubeTexture(cubes []*aeno.Object, tex *aeno.ImageTexture) bool {
	bound := false
	for _, cube := range cubes {
		m, ok := cube.Material.(*aeno.StandardMaterial)
		if !ok {
			continue
		}
		m.SetMap(tex)
		bound = true
	}
	if bound {
		sc.CubeTexture.Set(tex)
	}
	return bound
}

// AttachConeAsset adds the second asset to its slot and moves the Cone aside
func (sc *SceneContext) AttachConeAsset(a *aeno.Asset) {
	model := a.Scene
	sc.coneSlot.Add(model)

	cone := model.ObjectByName(ConeName)
	if cone == nil || !cone.IsMesh() {
		return
	}
	cone.Position.X = coneX
	if m, ok := cone.Material.(*aeno.StandardMaterial); ok {
		sc.ConeMaterial.Set(m)
	}
}

// stage places the lights and the camera the first time it runs
func (sc *SceneContext) stage() {
	if sc.staged {
		return
	}
	sc.Scene.AddLight(aeno.NewAmbientLight(ambientColor))

	sun := aeno.NewDirectionalLight(aeno.White, 1)
	sun.Position = lightPosition
	sc.Scene.AddLight(sun)

	sc.Camera.Position = cameraPosition
	sc.Camera.LookAt(aeno.Vector{})
	sc.staged = true
}
