package aeno

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF loads a .gltf or .glb file into a scene subtree with its animations
func LoadGLTF(path string) (*Asset, error) {
	return LoadGLTFWithOptions(path, LoadOptions{})
}

// LoadGLTFWithOptions reports progress while reading. Binary .glb files and
// remote documents are streamed; local .gltf files are opened so that external
// buffers resolve relative to the file.
func LoadGLTFWithOptions(path string, opts LoadOptions) (*Asset, error) {
	var doc *gltf.Document
	if !IsURL(path) && strings.EqualFold(filepath.Ext(path), ".gltf") {
		d, err := gltf.Open(path)
		if err != nil {
			return nil, err
		}
		doc = d
		if opts.Progress != nil {
			if size := fileSize(path); size >= 0 {
				opts.Progress(size, size)
			}
		}
	} else {
		rc, total, err := OpenAsset(path)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		doc = new(gltf.Document)
		if err := gltf.NewDecoder(NewProgressReader(rc, total, opts.Progress)).Decode(doc); err != nil {
			return nil, fmt.Errorf("aeno: decode %s: %w", path, err)
		}
	}
	return LoadGLTFDocument(doc, opts)
}

// LoadGLTFDocument converts a decoded document. The default scene (or the
// first one) becomes the subtree root's children.
func LoadGLTFDocument(doc *gltf.Document, opts LoadOptions) (*Asset, error) {
	b := &gltfBuilder{
		doc:       doc,
		opts:      opts,
		objects:   make(map[int]*Object),
		materials: make(map[int]*StandardMaterial),
		meshes:    make(map[int][]*Mesh),
	}
	root := NewGroup("Scene")
	roots, err := b.sceneRoots()
	if err != nil {
		return nil, err
	}
	if s, ok := index(doc.Scene); ok && s < len(doc.Scenes) && doc.Scenes[s].Name != "" {
		root.Name = doc.Scenes[s].Name
	}
	for _, n := range roots {
		o, err := b.node(n, 0)
		if err != nil {
			return nil, err
		}
		root.Add(o)
	}
	clips, err := b.animations()
	if err != nil {
		return nil, err
	}
	return &Asset{Scene: root, Animations: clips}, nil
}

type gltfBuilder struct {
	doc        *gltf.Document
	opts       LoadOptions
	objects    map[int]*Object
	materials  map[int]*StandardMaterial
	meshes     map[int][]*Mesh
	defaultMat *StandardMaterial
}

// maxNodeDepth guards against cyclic node graphs
const maxNodeDepth = 256

func (b *gltfBuilder) sceneRoots() ([]int, error) {
	doc := b.doc
	if len(doc.Scenes) > 0 {
		s, ok := index(doc.Scene)
		if !ok {
			s = 0
		}
		if s < 0 || s >= len(doc.Scenes) {
			return nil, fmt.Errorf("aeno: gltf scene %d out of range", s)
		}
		var roots []int
		for _, n := range doc.Scenes[s].Nodes {
			roots = append(roots, int(n))
		}
		return roots, nil
	}
	// No scenes: every node without a parent is a root.
	child := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			child[int(c)] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots, nil
}

func nodeName(doc *gltf.Document, i int) string {
	if i >= 0 && i < len(doc.Nodes) && doc.Nodes[i].Name != "" {
		return doc.Nodes[i].Name
	}
	return fmt.Sprintf("node_%d", i)
}

func (b *gltfBuilder) node(i, depth int) (*Object, error) {
	doc := b.doc
	if i < 0 || i >= len(doc.Nodes) {
		return nil, fmt.Errorf("aeno: gltf node %d out of range", i)
	}
	if depth > maxNodeDepth {
		return nil, fmt.Errorf("aeno: gltf node hierarchy deeper than %d", maxNodeDepth)
	}
	if o, ok := b.objects[i]; ok {
		return nil, fmt.Errorf("aeno: gltf node %d (%s) has more than one parent", i, o.Name)
	}
	n := doc.Nodes[i]
	o := NewGroup(nodeName(doc, i))
	b.objects[i] = o
	o.Position, o.Rotation, o.Scale = nodeTransform(n)

	if m, ok := index(n.Mesh); ok {
		if err := b.attachMesh(o, m); err != nil {
			return nil, err
		}
	}
	for _, c := range n.Children {
		child, err := b.node(int(c), depth+1)
		if err != nil {
			return nil, err
		}
		o.Add(child)
	}
	return o, nil
}

// nodeTransform prefers a non-identity matrix and otherwise fills TRS defaults
func nodeTransform(n *gltf.Node) (Vector, mgl64.Quat, Vector) {
	var zero [16]float64
	if n.Matrix != zero && !nearIdentity(n.Matrix) {
		return decompose(mgl64.Mat4(n.Matrix))
	}
	t := Vector{n.Translation[0], n.Translation[1], n.Translation[2]}
	r := mgl64.QuatIdent()
	if n.Rotation != [4]float64{} {
		r = mgl64.Quat{W: n.Rotation[3], V: mgl64.Vec3{n.Rotation[0], n.Rotation[1], n.Rotation[2]}}.Normalize()
	}
	s := Vector{1, 1, 1}
	if n.Scale != [3]float64{} {
		s = Vector{n.Scale[0], n.Scale[1], n.Scale[2]}
	}
	return t, r, s
}

func nearIdentity(m [16]float64) bool {
	for i, v := range m {
		want := 0.0
		if i%5 == 0 {
			want = 1
		}
		if !Near(v, want, Epsilon) {
			return false
		}
	}
	return true
}

func decompose(m mgl64.Mat4) (Vector, mgl64.Quat, Vector) {
	t := Vector{m[12], m[13], m[14]}
	sx := mgl64.Vec3{m[0], m[1], m[2]}.Len()
	sy := mgl64.Vec3{m[4], m[5], m[6]}.Len()
	sz := mgl64.Vec3{m[8], m[9], m[10]}.Len()
	if m.Det() < 0 {
		sx = -sx
	}
	r := mgl64.Ident4()
	if !Near(sx, 0, Epsilon) && !Near(sy, 0, Epsilon) && !Near(sz, 0, Epsilon) {
		r = mgl64.Mat4{
			m[0] / sx, m[1] / sx, m[2] / sx, 0,
			m[4] / sy, m[5] / sy, m[6] / sy, 0,
			m[8] / sz, m[9] / sz, m[10] / sz, 0,
			0, 0, 0, 1,
		}
	}
	return t, mgl64.Mat4ToQuat(r).Normalize(), Vector{sx, sy, sz}
}

// attachMesh makes o a mesh object for a single primitive, or adds one child per primitive
func (b *gltfBuilder) attachMesh(o *Object, mi int) error {
	doc := b.doc
	if mi < 0 || mi >= len(doc.Meshes) {
		return fmt.Errorf("aeno: gltf mesh %d out of range", mi)
	}
	meshes, err := b.primitives(mi)
	if err != nil {
		return err
	}
	prims := doc.Meshes[mi].Primitives
	var drawable []int
	for pi, m := range meshes {
		if m != nil {
			drawable = append(drawable, pi)
		}
	}
	if len(drawable) == 1 {
		pi := drawable[0]
		o.Mesh = meshes[pi]
		o.Material = b.material(prims[pi])
		return nil
	}
	for k, pi := range drawable {
		child := NewMeshObject(fmt.Sprintf("%s_%d", o.Name, k), meshes[pi], b.material(prims[pi]))
		o.Add(child)
	}
	return nil
}

func (b *gltfBuilder) material(p *gltf.Primitive) Material {
	mi, ok := index(p.Material)
	if !ok || mi < 0 || mi >= len(b.doc.Materials) {
		if b.defaultMat == nil {
			b.defaultMat = NewStandardMaterial(White)
		}
		return b.defaultMat
	}
	if m, ok := b.materials[mi]; ok {
		return m
	}
	src := b.doc.Materials[mi]
	c := White
	if pbr := src.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		f := *pbr.BaseColorFactor
		c = Color{f[0], f[1], f[2], f[3]}
	}
	m := NewStandardMaterial(c)
	m.Name = src.Name
	b.materials[mi] = m
	return m
}

// primitives converts every triangle primitive of mesh mi; other modes map to nil
func (b *gltfBuilder) primitives(mi int) ([]*Mesh, error) {
	if m, ok := b.meshes[mi]; ok {
		return m, nil
	}
	doc := b.doc
	var out []*Mesh
	for _, primitive := range doc.Meshes[mi].Primitives {
		// We only support Triangles (mode 4)
		if primitive.Mode != gltf.PrimitiveTriangles {
			out = append(out, nil)
			continue
		}
		mesh, err := b.primitive(primitive)
		if err != nil {
			return nil, fmt.Errorf("aeno: gltf mesh %d: %w", mi, err)
		}
		out = append(out, mesh)
	}
	b.meshes[mi] = out
	return out, nil
}

func (b *gltfBuilder) primitive(primitive *gltf.Primitive) (*Mesh, error) {
	doc := b.doc
	posIdx, ok := primitive.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, err
	}

	var normals [][3]float32
	if normIdx, ok := primitive.Attributes[gltf.NORMAL]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
	}

	var texCoords [][2]float32
	if texIdx, ok := primitive.Attributes[gltf.TEXCOORD_0]; ok {
		texCoords, _ = modeler.ReadTextureCoord(doc, doc.Accessors[texIdx], nil)
	}

	var indices []uint32
	if primitive.Indices != nil {
		// ReadIndices automatically converts uint8/uint16/uint32 to []uint32
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], nil)
		if err != nil {
			return nil, err
		}
	} else {
		// If no indices are provided, generate linear indices (0, 1, 2, ...)
		indices = make([]uint32, len(positions))
		for k := range indices {
			indices[k] = uint32(k)
		}
	}

	vertex := func(i uint32) (Vertex, error) {
		var v Vertex
		if int(i) >= len(positions) {
			return v, fmt.Errorf("index %d out of range", i)
		}
		p := positions[i]
		v.Position = Vector{float64(p[0]), float64(p[1]), float64(p[2])}
		if len(normals) > int(i) {
			n := normals[i]
			v.Normal = Vector{float64(n[0]), float64(n[1]), float64(n[2])}
		}
		if len(texCoords) > int(i) {
			t := texCoords[i]
			v.Texture = Vector{float64(t[0]), float64(t[1]), 0}
		}
		return v, nil
	}

	triangles := make([]*Triangle, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		t := &Triangle{}
		if t.V1, err = vertex(indices[i]); err != nil {
			return nil, err
		}
		if t.V2, err = vertex(indices[i+1]); err != nil {
			return nil, err
		}
		if t.V3, err = vertex(indices[i+2]); err != nil {
			return nil, err
		}
		t.FixNormals()
		triangles = append(triangles, t)
	}
	if len(triangles) == 0 {
		return nil, nil
	}
	mesh := NewTriangleMesh(triangles)
	if f := b.opts.Simplify; f > 0 && f < 1 && len(texCoords) == 0 {
		mesh = SimplifyMesh(mesh, f)
	}
	return mesh, nil
}

// animations converts every animation; weight channels and unresolved samplers are skipped
func (b *gltfBuilder) animations() ([]*Clip, error) {
	doc := b.doc
	var clips []*Clip
	for ai, anim := range doc.Animations {
		name := anim.Name
		if name == "" {
			name = fmt.Sprintf("animation_%d", ai)
		}
		var tracks []*Track
		for _, ch := range anim.Channels {
			node, ok := index(ch.Target.Node)
			if !ok {
				continue
			}
			var path TrackPath
			switch ch.Target.Path {
			case gltf.TRSTranslation:
				path = PathTranslation
			case gltf.TRSRotation:
				path = PathRotation
			case gltf.TRSScale:
				path = PathScale
			default:
				continue
			}
			si, ok := index(ch.Sampler)
			if !ok || si < 0 || si >= len(anim.Samplers) {
				continue
			}
			track, err := b.track(anim.Samplers[si], path)
			if err != nil {
				return nil, fmt.Errorf("aeno: animation %q: %w", name, err)
			}
			track.Node = nodeName(doc, node)
			tracks = append(tracks, track)
		}
		clips = append(clips, NewClip(name, tracks))
	}
	return clips, nil
}

func (b *gltfBuilder) track(s *gltf.AnimationSampler, path TrackPath) (*Track, error) {
	doc := b.doc
	in, ok := index(s.Input)
	if !ok || in < 0 || in >= len(doc.Accessors) {
		return nil, fmt.Errorf("sampler input out of range")
	}
	out, ok := index(s.Output)
	if !ok || out < 0 || out >= len(doc.Accessors) {
		return nil, fmt.Errorf("sampler output out of range")
	}
	times, err := modeler.ReadAccessor(doc, doc.Accessors[in], nil)
	if err != nil {
		return nil, err
	}
	t := &Track{Path: path}
	switch v := times.(type) {
	case []float32:
		t.Times = v
	default:
		return nil, fmt.Errorf("sampler input has type %T, want float scalars", times)
	}
	values, err := modeler.ReadAccessor(doc, doc.Accessors[out], nil)
	if err != nil {
		return nil, err
	}
	if t.Values, err = flatten(values); err != nil {
		return nil, err
	}
	switch s.Interpolation {
	case gltf.InterpolationStep:
		t.Interpolation = InterpolateStep
	case gltf.InterpolationCubicSpline:
		t.Interpolation = InterpolateCubicSpline
	default:
		t.Interpolation = InterpolateLinear
	}
	if !t.valid() {
		return nil, fmt.Errorf("%s track has %d values for %d keys", path, len(t.Values), len(t.Times))
	}
	return t, nil
}

// flatten accepts float vectors and the normalized integer rotations glTF allows
func flatten(values any) ([]float32, error) {
	var out []float32
	switch v := values.(type) {
	case [][3]float32:
		for _, x := range v {
			out = append(out, x[:]...)
		}
	case [][4]float32:
		for _, x := range v {
			out = append(out, x[:]...)
		}
	case [][4]int8:
		for _, x := range v {
			for _, c := range x {
				out = append(out, float32(math.Max(float64(c)/127, -1)))
			}
		}
	case [][4]uint8:
		for _, x := range v {
			for _, c := range x {
				out = append(out, float32(c)/255)
			}
		}
	case [][4]int16:
		for _, x := range v {
			for _, c := range x {
				out = append(out, float32(math.Max(float64(c)/32767, -1)))
			}
		}
	case [][4]uint16:
		for _, x := range v {
			for _, c := range x {
				out = append(out, float32(c)/65535)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported sampler output type %T", values)
	}
	return out, nil
}

// index reads optional and required gltf index fields alike
func index(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case *int:
		if x != nil {
			return *x, true
		}
	case uint32:
		return int(x), true
	case *uint32:
		if x != nil {
			return int(*x), true
		}
	}
	return 0, false
}
