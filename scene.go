package aeno

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/nfnt/resize"
)

// Scene struct to store all data for a scene
type Scene struct {
	Root       *Object
	Lights     []Light
	Background Color
}

// NewScene returns an empty scene with a black background
func NewScene() *Scene {
	return &Scene{Root: NewGroup("scene"), Background: Black}
}

// Add attaches objects to the scene root
func (s *Scene) Add(objects ...*Object) {
	s.Root.Add(objects...)
}

func (s *Scene) AddLight(lights ...Light) {
	s.Lights = append(s.Lights, lights...)
}

// ObjectByName searches the whole scene
func (s *Scene) ObjectByName(name string) *Object {
	return s.Root.ObjectByName(name)
}

// FitCamera widens the camera field of view so every mesh is visible
func (s *Scene) FitCamera(camera *Camera) {
	camera.Fit(s.Root.BoundingBox())
}

// Viewport describes the output image. Scale supersamples and downsizes with a Lanczos filter.
type Viewport struct {
	Width  int
	Height int
	Scale  int
}

func (vp Viewport) normalized() Viewport {
	if vp.Scale < 1 {
		vp.Scale = 1
	}
	if vp.Width < 1 {
		vp.Width = 1
	}
	if vp.Height < 1 {
		vp.Height = 1
	}
	return vp
}

// Render draws every visible mesh object and returns the final image
func (s *Scene) Render(camera *Camera, vp Viewport) image.Image {
	vp = vp.normalized()
	dc := NewContext(vp.Width*vp.Scale, vp.Height*vp.Scale)
	dc.ClearColor = s.Background
	dc.ClearColorBuffer()

	lighting := collectLighting(s.Lights)
	s.Root.walk(Identity(), func(o *Object, world Matrix) {
		if o.Mesh == nil {
			return
		}
		if o.Material == nil {
			slog.Debug("aeno: object has no material", "object", o.Name)
			return
		}
		dc.DrawObject(o, world, camera, lighting)
	})

	if vp.Scale == 1 {
		return dc.Image()
	}
	return resize.Resize(uint(vp.Width), uint(vp.Height), dc.Image(), resize.Lanczos3)
}

// Draw renders the scene to a png file
func (s *Scene) Draw(path string, camera *Camera, vp Viewport) error {
	return SavePNG(path, s.Render(camera, vp))
}

// SavePNG writes img to path
func SavePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("aeno: could not create %s: %w", path, err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("aeno: could not encode png: %w", err)
	}
	return file.Close()
}

// DrawToWriter encodes the rendered image as png
func (s *Scene) DrawToWriter(writer io.Writer, camera *Camera, vp Viewport) error {
	if err := png.Encode(writer, s.Render(camera, vp)); err != nil {
		return fmt.Errorf("aeno: could not encode png: %w", err)
	}
	return nil
}
