package aeno

import "math"

// Camera is a perspective camera. Fovy is the vertical field of view in degrees.
type Camera struct {
	Position Vector
	Target   Vector
	Up       Vector
	Fovy     float64
	Aspect   float64
	Near     float64
	Far      float64
}

func NewCamera(fovy, aspect, near, far float64) *Camera {
	return &Camera{
		Position: Vector{0, 0, 1},
		Up:       Vector{0, 1, 0},
		Fovy:     fovy,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
	}
}

// LookAt aims the camera at target from its current position
func (c *Camera) LookAt(target Vector) {
	c.Target = target
}

func (c *Camera) View() Matrix {
	return LookAt(c.Position, c.Target, c.Up)
}

func (c *Camera) Projection() Matrix {
	return Perspective(c.Fovy, c.Aspect, c.Near, c.Far)
}

func (c *Camera) ViewProjection() Matrix {
	return c.Projection().Mul(c.View())
}

// Fit widens Fovy so that box is fully visible from the current position
func (c *Camera) Fit(box Box) {
	if box.Empty() {
		return
	}
	viewMatrix := c.View()

	var maxAngleX, maxAngleY float64
	for _, corner := range box.Corners() {
		p := viewMatrix.MulPosition(corner)

		// The camera looks down the negative Z-axis in view space. We need the
		// distance from the camera for the angle calculation.
		if Near(p.Z, 0, 1e-6) { // points in the camera plane have no angle
			continue
		}
		absZ := math.Abs(p.Z)

		angleX := math.Atan(math.Abs(p.X) / absZ)
		if angleX > maxAngleX {
			maxAngleX = angleX
		}

		angleY := math.Atan(math.Abs(p.Y) / absZ)
		if angleY > maxAngleY {
			maxAngleY = angleY
		}
	}

	fovyFromY := 2 * maxAngleY
	fovyFromX := 2 * math.Atan(math.Tan(maxAngleX)/c.Aspect)
	finalFovyRad := math.Max(fovyFromX, fovyFromY)
	if Near(finalFovyRad, 0, Epsilon) {
		return
	}

	// Convert to degrees and add a 5% padding to prevent objects from clipping.
	c.Fovy = Degrees(finalFovyRad) * 1.05
}
