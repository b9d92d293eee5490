package aeno

import (
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Object is a named node of the scene graph.
// An object with a Mesh is renderable; one without is a group.
type Object struct {
	Name     string
	Mesh     *Mesh
	Material Material
	Position Vector
	Rotation mgl64.Quat
	Scale    Vector
	Visible  bool
	Children []*Object
	parent   *Object
}

// NewGroup returns an empty, visible group
func NewGroup(name string) *Object {
	return &Object{Name: name, Rotation: mgl64.QuatIdent(), Scale: Vector{1, 1, 1}, Visible: true}
}

// NewMeshObject returns a renderable object. A nil material draws with a grey StandardMaterial.
func NewMeshObject(name string, mesh *Mesh, material Material) *Object {
	o := NewGroup(name)
	o.Mesh = mesh
	if material == nil {
		material = NewStandardMaterial(HexColor("777"))
	}
	o.Material = material
	return o
}

// NewObjectFromFile loads an OBJ file into a mesh object named after the file
func NewObjectFromFile(path string) (*Object, error) {
	mesh, err := LoadOBJ(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewMeshObject(name, mesh, nil), nil
}

// IsMesh reports whether the object has geometry to draw
func (o *Object) IsMesh() bool {
	return o.Mesh != nil
}

func (o *Object) Parent() *Object {
	return o.parent
}

// Add attaches children, detaching them from any previous parent
func (o *Object) Add(children ...*Object) {
	for _, c := range children {
		if c == nil || c == o {
			continue
		}
		if c.parent != nil {
			c.parent.remove(c)
		}
		c.parent = o
		o.Children = append(o.Children, c)
	}
}

func (o *Object) remove(c *Object) {
	for i, x := range o.Children {
		if x == c {
			o.Children = append(o.Children[:i], o.Children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

// Traverse visits o and its descendants depth first. Returning false stops the walk.
func (o *Object) Traverse(fn func(*Object) bool) bool {
	if !fn(o) {
		return false
	}
	for _, c := range o.Children {
		if !c.Traverse(fn) {
			return false
		}
	}
	return true
}

// ObjectByName returns the first object in the subtree with an exactly matching name
func (o *Object) ObjectByName(name string) *Object {
	var found *Object
	o.Traverse(func(x *Object) bool {
		if x.Name == name {
			found = x
			return false
		}
		return true
	})
	return found
}

func (o *Object) LocalMatrix() Matrix {
	return Compose(o.Position, o.Rotation, o.Scale)
}

// WorldMatrix composes the local matrices from the root down to o
func (o *Object) WorldMatrix() Matrix {
	m := o.LocalMatrix()
	for p := o.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// BoundingBox returns the world space bounds of every mesh in the subtree
func (o *Object) BoundingBox() Box {
	box := EmptyBox
	o.walk(Identity(), func(x *Object, world Matrix) {
		if x.Mesh != nil {
			box = box.Extend(x.Mesh.BoundingBox().Transform(world))
		}
	})
	return box
}

// walk visits visible objects with their world matrix relative to parent
func (o *Object) walk(parent Matrix, fn func(*Object, Matrix)) {
	if !o.Visible {
		return
	}
	world := parent.Mul(o.LocalMatrix())
	fn(o, world)
	for _, c := range o.Children {
		c.walk(world, fn)
	}
}
