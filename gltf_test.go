package aeno

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDocument is a two-clip scene shaped like the showcase asset
func testDocument() *gltf.Document {
	doc := gltf.NewDocument()
	doc.Scenes[0] = &gltf.Scene{Name: "Scene", Nodes: []int{0, 1, 2}}

	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	times := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 1})
	doc.Accessors[times].Min = []float64{0}
	doc.Accessors[times].Max = []float64{1}
	moves := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{{0, 0, 0}, {2, 4, 6}})
	s := float32(math.Sqrt2 / 2)
	turns := modeler.WriteAccessor(doc, gltf.TargetNone, [][4]float32{{0, 0, 0, 1}, {0, 0, s, s}})

	red := [4]float64{1, 0, 0, 1}
	doc.Materials = []*gltf.Material{
		{Name: "Red", PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &red}},
	}
	doc.Meshes = []*gltf.Mesh{
		{Primitives: []*gltf.Primitive{
			{Attributes: gltf.PrimitiveAttributes{gltf.POSITION: pos}, Indices: gltf.Index(idx), Material: gltf.Index(0)},
		}},
		{Primitives: []*gltf.Primitive{
			{Attributes: gltf.PrimitiveAttributes{gltf.POSITION: pos}, Material: gltf.Index(0)},
			{Attributes: gltf.PrimitiveAttributes{gltf.POSITION: pos}},
		}},
	}
	doc.Nodes = []*gltf.Node{
		{Name: "Cube", Mesh: gltf.Index(0)},
		{Name: "Sphere", Mesh: gltf.Index(0), Translation: [3]float64{0, 2, 0}},
		{Mesh: gltf.Index(1), Scale: [3]float64{2, 2, 2}},
	}
	doc.Animations = []*gltf.Animation{
		{
			Name:     "CubeAction",
			Channels: []*gltf.AnimationChannel{{Sampler: 0, Target: gltf.AnimationChannelTarget{Node: gltf.Index(0), Path: gltf.TRSTranslation}}},
			Samplers: []*gltf.AnimationSampler{{Input: times, Output: moves}},
		},
		{
			Name:     "SphereAction",
			Channels: []*gltf.AnimationChannel{{Sampler: 0, Target: gltf.AnimationChannelTarget{Node: gltf.Index(1), Path: gltf.TRSRotation}}},
			Samplers: []*gltf.AnimationSampler{{Input: times, Output: turns, Interpolation: gltf.InterpolationStep}},
		},
	}
	return doc
}

// writeDocument saves doc as a .gltf with its buffer embedded as a data uri
func writeDocument(t *testing.T, doc *gltf.Document) string {
	t.Helper()
	for _, b := range doc.Buffers {
		b.EmbeddedResource()
	}
	path := filepath.Join(t.TempDir(), "scene.gltf")
	require.NoError(t, gltf.Save(doc, path))
	return path
}

func writeBinary(t *testing.T, doc *gltf.Document) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func TestLoadGLTF(t *testing.T) {
	var reported bool
	asset, err := LoadAsset(writeDocument(t, testDocument()), LoadOptions{
		Progress: func(loaded, total int64) { reported = loaded == total && total > 0 },
	})
	require.NoError(t, err)
	assert.True(t, reported)

	root := asset.Scene
	assert.Equal(t, "Scene", root.Name)
	require.Len(t, root.Children, 3)

	cube := root.ObjectByName("Cube")
	require.NotNil(t, cube)
	require.True(t, cube.IsMesh())
	assert.Len(t, cube.Mesh.Triangles, 1)
	mat, ok := cube.Material.(*StandardMaterial)
	require.True(t, ok)
	assert.Equal(t, "Red", mat.Name)
	assert.Equal(t, Color{1, 0, 0, 1}, mat.Color)

	sphere := root.ObjectByName("Sphere")
	require.NotNil(t, sphere)
	assert.Equal(t, V(0, 2, 0), sphere.Position)
	assert.Same(t, mat, sphere.Material, "material index is shared")

	group := root.ObjectByName("node_2")
	require.NotNil(t, group)
	assert.False(t, group.IsMesh())
	assert.Equal(t, V(2, 2, 2), group.Scale)
	require.Len(t, group.Children, 2)
	assert.Equal(t, "node_2_0", group.Children[0].Name)
	assert.Equal(t, "node_2_1", group.Children[1].Name)
	assert.Same(t, mat, group.Children[0].Material)
	assert.Equal(t, White, group.Children[1].Material.(*StandardMaterial).Color)
	assert.Same(t, group, group.Children[1].Parent())
}

func TestLoadGLB(t *testing.T) {
	var calls int
	var last, size int64
	asset, err := LoadAsset(writeBinary(t, testDocument()), LoadOptions{
		Progress: func(loaded, total int64) {
			calls++
			last, size = loaded, total
		},
	})
	require.NoError(t, err)
	assert.Positive(t, calls)
	assert.Positive(t, size)
	assert.Equal(t, size, last, "the whole file is read")

	root := asset.Scene
	assert.Equal(t, "Scene", root.Name)
	require.Len(t, root.Children, 3)
	cube := root.ObjectByName("Cube")
	require.NotNil(t, cube)
	assert.Len(t, cube.Mesh.Triangles, 1)
	assert.Equal(t, V(0, 2, 0), root.ObjectByName("Sphere").Position)

	require.Len(t, asset.Animations, 2)
	clip := FindClip(asset.Animations, "CubeAction")
	require.NotNil(t, clip)
	assert.InDeltaSlice(t, []float64{1, 2, 3}, clip.Tracks[0].Sample(0.5), 1e-6)
	assert.NotNil(t, FindClip(asset.Animations, "SphereAction"))
}

func TestNodeTransform(t *testing.T) {
	// float noise around identity keeps the TRS properties
	near := gltf.DefaultMatrix
	near[0], near[5] = 1+1e-12, 1-1e-12
	near[13] = 1e-13
	pos, rot, scale := nodeTransform(&gltf.Node{Matrix: near, Translation: [3]float64{1, 2, 3}})
	assert.Equal(t, V(1, 2, 3), pos)
	assert.Equal(t, mgl64.QuatIdent(), rot)
	assert.Equal(t, V(1, 1, 1), scale)

	m := gltf.DefaultMatrix
	m[12], m[13], m[14] = 4, 5, 6
	m[0], m[5], m[10] = 2, 2, 2
	pos, _, scale = nodeTransform(&gltf.Node{Matrix: m})
	assert.Equal(t, V(4, 5, 6), pos)
	assertVector(t, V(2, 2, 2), scale)

	// a collapsed axis leaves the rotation at identity
	m = gltf.DefaultMatrix
	m[8], m[10] = 1e-12, 0
	_, rot, _ = nodeTransform(&gltf.Node{Matrix: m})
	assert.InDelta(t, 1.0, rot.W, 1e-9)
}

func TestLoadGLTFAnimations(t *testing.T) {
	asset, err := LoadGLTF(writeDocument(t, testDocument()))
	require.NoError(t, err)
	require.Len(t, asset.Animations, 2)

	cube := FindClip(asset.Animations, "CubeAction")
	require.NotNil(t, cube)
	assert.Equal(t, 1.0, cube.Duration)
	require.Len(t, cube.Tracks, 1)
	tr := cube.Tracks[0]
	assert.Equal(t, "Cube", tr.Node)
	assert.Equal(t, PathTranslation, tr.Path)
	assert.Equal(t, InterpolateLinear, tr.Interpolation)
	assert.InDeltaSlice(t, []float64{1, 2, 3}, tr.Sample(0.5), 1e-6)

	sphere := FindClip(asset.Animations, "SphereAction")
	require.NotNil(t, sphere)
	tr = sphere.Tracks[0]
	assert.Equal(t, "Sphere", tr.Node)
	assert.Equal(t, PathRotation, tr.Path)
	assert.Equal(t, InterpolateStep, tr.Interpolation)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 1}, tr.Sample(0.9), 1e-6)

	assert.Nil(t, FindClip(asset.Animations, "cubeaction"))
}

func TestLoadGLTFErrors(t *testing.T) {
	doc := testDocument()
	doc.Nodes[0].Children = []int{1}
	_, err := LoadGLTF(writeDocument(t, doc))
	assert.ErrorContains(t, err, "more than one parent")

	_, err = LoadGLTF(filepath.Join(t.TempDir(), "missing.glb"))
	assert.Error(t, err)

	_, err = LoadAsset("scene.fbx", LoadOptions{})
	assert.ErrorContains(t, err, "unsupported asset type")
}

func TestLoadOBJ(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n"
	mesh, err := LoadOBJFromBytes([]byte(src))
	require.NoError(t, err)
	assert.Len(t, mesh.Triangles, 2)
	box := mesh.BoundingBox()
	assert.Equal(t, V(0, 0, 0), box.Min)
	assert.Equal(t, V(1, 1, 0), box.Max)

	_, err = LoadOBJFromBytes([]byte("v 0 0 0\nf 1 2 3\n"))
	assert.ErrorContains(t, err, "out of range")

	path := filepath.Join(t.TempDir(), "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	asset, err := LoadAsset(path, LoadOptions{})
	require.NoError(t, err)
	quad := asset.Scene.ObjectByName("quad")
	require.NotNil(t, quad)
	assert.True(t, quad.IsMesh())
	assert.Empty(t, asset.Animations)
}
