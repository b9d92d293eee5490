package viewer

import (
	"image"
	"time"

	aeno "github.com/netisu/aeno-showcase"
)

// Renderer draws one frame of the scene
type Renderer interface {
	Render(scene *aeno.Scene, camera *aeno.Camera)
}

// RenderFunc adapts a function to Renderer
type RenderFunc func(scene *aeno.Scene, camera *aeno.Camera)

func (f RenderFunc) Render(scene *aeno.Scene, camera *aeno.Camera) {
	f(scene, camera)
}

// ImageRenderer rasterizes every frame and hands the image to Sink
type ImageRenderer struct {
	Viewport aeno.Viewport
	Sink     func(image.Image)
}

func (r *ImageRenderer) Render(scene *aeno.Scene, camera *aeno.Camera) {
	img := scene.Render(camera, r.Viewport)
	if r.Sink != nil {
		r.Sink(img)
	}
}

// FrameLoop advances the registered mixers by wall time and renders once per tick
type FrameLoop struct {
	ctx      *SceneContext
	renderer Renderer
	last     time.Time
}

func NewFrameLoop(ctx *SceneContext, renderer Renderer) *FrameLoop {
	return &FrameLoop{ctx: ctx, renderer: renderer}
}

// Tick is called once per display refresh. The first tick advances by zero.
func (f *FrameLoop) Tick(now time.Time) {
	var elapsed float64
	if !f.last.IsZero() {
		elapsed = now.Sub(f.last).Seconds()
		if elapsed < 0 {
			elapsed = 0
		}
	}
	f.last = now
	f.Advance(elapsed)
}

// Advance updates every mixer by elapsed seconds and renders
func (f *FrameLoop) Advance(elapsed float64) {
	for _, m := range f.ctx.Mixers() {
		m.Update(elapsed)
	}
	if f.renderer != nil {
		f.renderer.Render(f.ctx.Scene, f.ctx.Camera)
	}
}
