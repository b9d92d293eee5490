package aeno

// Light contributes to the Lighting of a scene
type Light interface {
	contribute(*Lighting)
}

// AmbientLight lights every surface equally
type AmbientLight struct {
	Color     Color
	Intensity float64
}

func NewAmbientLight(c Color) *AmbientLight {
	return &AmbientLight{Color: c, Intensity: 1}
}

func (l *AmbientLight) contribute(lt *Lighting) {
	lt.Ambient = lt.Ambient.Add(l.Color.MulScalar(l.Intensity)).Alpha(1)
}

// DirectionalLight shines from Position towards Target
type DirectionalLight struct {
	Color     Color
	Intensity float64
	Position  Vector
	Target    Vector
}

func NewDirectionalLight(c Color, intensity float64) *DirectionalLight {
	return &DirectionalLight{Color: c, Intensity: intensity, Position: Vector{0, 1, 0}}
}

func (l *DirectionalLight) contribute(lt *Lighting) {
	dir := l.Position.Sub(l.Target).Normalize()
	lt.Directional = append(lt.Directional, DirectionalTerm{
		Direction: dir,
		Color:     l.Color.MulScalar(l.Intensity).Alpha(1),
	})
}

// Lighting is the flattened light state for one frame.
// Direction points from the surface towards the light.
type Lighting struct {
	Ambient     Color
	Directional []DirectionalTerm
}

type DirectionalTerm struct {
	Direction Vector
	Color     Color
}

func collectLighting(lights []Light) Lighting {
	lt := Lighting{Ambient: Black}
	for _, l := range lights {
		l.contribute(&lt)
	}
	return lt
}
