// Package viewer sets up the showcase scene from its two assets, binds the
// control panel to the loaded objects and drives the frame loop.
//
// All mutation happens on the goroutine running the session's Loop: load
// completions, control input and frame ticks are events on that loop.
package viewer

import (
	aeno "github.com/netisu/aeno-showcase"
)

// Node and clip names looked up after loading
const (
	CubeName   = "Cube"
	SphereName = "Sphere"
	ConeName   = "Cone"

	CubeClip   = "CubeAction"
	SphereClip = "SphereAction"
)

// Slot groups hold each asset's subtree at a fixed place in the scene so
// that load completion order does not change the final tree.
const (
	CubeSlot = "cube-asset"
	ConeSlot = "cone-asset"
)

// SceneContext owns the scene and every handle the controls may mutate
type SceneContext struct {
	Scene  *aeno.Scene
	Camera *aeno.Camera

	cubeSlot *aeno.Object
	coneSlot *aeno.Object

	CubeMixer      Handle[*aeno.Mixer]
	SphereMixer    Handle[*aeno.Mixer]
	CubeTexture    Handle[*aeno.ImageTexture]
	SphereMaterial Handle[*aeno.ShaderMaterial]
	ConeMaterial   Handle[*aeno.StandardMaterial]

	staged bool
}

// NewSceneContext creates the empty scene with both asset slots and an unplaced camera
func NewSceneContext(aspect float64) *SceneContext {
	sc := &SceneContext{
		Scene:    aeno.NewScene(),
		Camera:   aeno.NewCamera(75, aspect, 0.1, 1000),
		cubeSlot: aeno.NewGroup(CubeSlot),
		coneSlot: aeno.NewGroup(ConeSlot),
	}
	sc.Scene.Add(sc.cubeSlot, sc.coneSlot)
	return sc
}

// Mixers returns the controllers created so far, cube first
func (sc *SceneContext) Mixers() []*aeno.Mixer {
	var out []*aeno.Mixer
	if m, ok := sc.CubeMixer.Get(); ok {
		out = append(out, m)
	}
	if m, ok := sc.SphereMixer.Get(); ok {
		out = append(out, m)
	}
	return out
}

// Staged reports whether lights and camera have been placed
func (sc *SceneContext) Staged() bool {
	return sc.staged
}
