package aeno

import "math"

type Mesh struct {
	Triangles []*Triangle
	Lines     []*Line
	box       *Box
}

func NewMesh(triangles []*Triangle, lines []*Line) *Mesh {
	return &Mesh{Triangles: triangles, Lines: lines}
}

func NewTriangleMesh(triangles []*Triangle) *Mesh {
	return &Mesh{Triangles: triangles}
}

func NewLineMesh(lines []*Line) *Mesh {
	return &Mesh{Lines: lines}
}

// BoundingBox is cached until the mesh is transformed
func (m *Mesh) BoundingBox() Box {
	if m.box == nil {
		box := EmptyBox
		for _, t := range m.Triangles {
			box = box.Extend(t.BoundingBox())
		}
		for _, l := range m.Lines {
			box = box.Extend(l.BoundingBox())
		}
		m.box = &box
	}
	return *m.box
}

// Transform bakes a matrix into the vertex data
func (m *Mesh) Transform(matrix Matrix) {
	for _, t := range m.Triangles {
		for _, v := range []*Vertex{&t.V1, &t.V2, &t.V3} {
			v.Position = matrix.MulPosition(v.Position)
			v.Normal = matrix.MulDirection(v.Normal)
		}
	}
	for _, l := range m.Lines {
		l.V1.Position = matrix.MulPosition(l.V1.Position)
		l.V2.Position = matrix.MulPosition(l.V2.Position)
	}
	m.box = nil
}

func (m *Mesh) Copy() *Mesh {
	triangles := make([]*Triangle, len(m.Triangles))
	for i, t := range m.Triangles {
		c := *t
		triangles[i] = &c
	}
	lines := make([]*Line, len(m.Lines))
	for i, l := range m.Lines {
		c := *l
		lines[i] = &c
	}
	return NewMesh(triangles, lines)
}

// HasTexCoords reports whether any vertex carries texture coordinates
func (m *Mesh) HasTexCoords() bool {
	zero := Vector{}
	for _, t := range m.Triangles {
		if t.V1.Texture != zero || t.V2.Texture != zero || t.V3.Texture != zero {
			return true
		}
	}
	return false
}

type Box struct {
	Min, Max Vector
}

var EmptyBox = Box{
	Vector{math.Inf(1), math.Inf(1), math.Inf(1)},
	Vector{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
}

func BoxForBoxes(boxes []Box) Box {
	box := EmptyBox
	for _, b := range boxes {
		box = box.Extend(b)
	}
	return box
}

func (a Box) Empty() bool {
	return a.Min.X > a.Max.X || a.Min.Y > a.Max.Y || a.Min.Z > a.Max.Z
}

func (a Box) Extend(b Box) Box {
	if a.Empty() {
		return b
	}
	if b.Empty() {
		return a
	}
	return Box{a.Min.Min(b.Min), a.Max.Max(b.Max)}
}

func (a Box) Size() Vector {
	return a.Max.Sub(a.Min)
}

func (a Box) Center() Vector {
	return a.Min.Add(a.Max).MulScalar(0.5)
}

// Transform returns the axis aligned box around the transformed corners
func (a Box) Transform(m Matrix) Box {
	box := EmptyBox
	for _, c := range a.Corners() {
		p := m.MulPosition(c)
		box = box.Extend(Box{p, p})
	}
	return box
}

func (a Box) Corners() []Vector {
	x0, y0, z0 := a.Min.X, a.Min.Y, a.Min.Z
	x1, y1, z1 := a.Max.X, a.Max.Y, a.Max.Z
	return []Vector{
		{x0, y0, z0},
		{x0, y0, z1},
		{x0, y1, z0},
		{x0, y1, z1},
		{x1, y0, z0},
		{x1, y0, z1},
		{x1, y1, z0},
		{x1, y1, z1},
	}
}
