package viewer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	aeno "github.com/netisu/aeno-showcase"
)

// Control element identifiers
const (
	CubeSpeed    = "cube-animation-speed"
	SphereSpeed  = "sphere-animation-speed"
	CubeTexture  = "cube-texture"
	SphereShader = "sphere-shader"
	ConeColour   = "cone-colour"
)

var ErrUnknownControl = errors.New("viewer: unknown control")

// Control describes one slider of the panel
type Control struct {
	ID    string
	Label string
	Min   float64
	Max   float64
	Step  float64
	Value float64
}

// Controls lists the panel in display order
func Controls() []Control {
	return []Control{
		{ID: CubeSpeed, Label: "Cube animation speed", Min: 0, Max: 5, Step: 0.1, Value: 1},
		{ID: SphereSpeed, Label: "Sphere animation speed", Min: 0, Max: 5, Step: 0.1, Value: 1},
		{ID: CubeTexture, Label: "Cube texture", Min: 0.1, Max: 10, Step: 0.1, Value: 1},
		{ID: SphereShader, Label: "Sphere shader", Min: 0, Max: 1, Step: 0.01, Value: 0.5},
		{ID: ConeColour, Label: "Cone colour", Min: 0, Max: 1, Step: 0.01, Value: 0.5},
	}
}

// ControlPanel maps control input onto the handles of a SceneContext.
// Every setter returns false and changes nothing while its target is absent.
type ControlPanel struct {
	ctx *SceneContext
}

func NewControlPanel(ctx *SceneContext) *ControlPanel {
	return &ControlPanel{ctx: ctx}
}

// IsControl reports whether id names one of the panel's controls
func IsControl(id string) bool {
	for _, c := range Controls() {
		if c.ID == id {
			return true
		}
	}
	return false
}

// ParseValue parses a raw element value the way a browser input reports it
func ParseValue(id, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("viewer: control %s: %w", id, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("viewer: control %s: value %v is not finite", id, v)
	}
	return v, nil
}

// InputString parses raw and dispatches it to the control named id
func (p *ControlPanel) InputString(id, raw string) (bool, error) {
	v, err := ParseValue(id, raw)
	if err != nil {
		return false, err
	}
	return p.Input(id, v)
}

// Input dispatches a value to the control named id
func (p *ControlPanel) Input(id string, v float64) (bool, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false, fmt.Errorf("viewer: control %s: value %v is not finite", id, v)
	}
	switch id {
	case CubeSpeed:
		return p.SetCubeSpeed(v), nil
	case SphereSpeed:
		return p.SetSphereSpeed(v), nil
	case CubeTexture:
		return p.SetCubeTexture(v), nil
	case SphereShader:
		return p.SetSphereShader(v), nil
	case ConeColour:
		return p.SetConeColour(v), nil
	}
	return false, fmt.Errorf("%w %q", ErrUnknownControl, id)
}

func (p *ControlPanel) SetCubeSpeed(v float64) bool {
	return p.ctx.CubeMixer.With(func(m *aeno.Mixer) { m.SetTimeScale(v) })
}

func (p *ControlPanel) SetSphereSpeed(v float64) bool {
	return p.ctx.SphereMixer.With(func(m *aeno.Mixer) { m.SetTimeScale(v) })
}

// SetCubeTexture tiles the cube texture v times on both axes
func (p *ControlPanel) SetCubeTexture(v float64) bool {
	return p.ctx.CubeTexture.With(func(t *aeno.ImageTexture) { t.SetRepeat(v, v) })
}

func (p *ControlPanel) SetSphereShader(v float64) bool {
	return p.ctx.SphereMaterial.With(func(m *aeno.ShaderMaterial) { m.SetUniform(sphereUniform, Ramp(v)) })
}

func (p *ControlPanel) SetConeColour(v float64) bool {
	return p.ctx.ConeMaterial.With(func(m *aeno.StandardMaterial) { m.SetColor(Ramp(v)) })
}

// Ramp maps a slider value to (v, 0.5, 1-v)
func Ramp(v float64) aeno.Color {
	return aeno.RGB(v, 0.5, 1-v)
}
