package viewer

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"sort"
	"strings"

	aeno "github.com/netisu/aeno-showcase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func quad() *aeno.Mesh {
	return aeno.NewTriangleMesh([]*aeno.Triangle{
		aeno.NewTriangleForPoints(aeno.V(-1, -1, 0), aeno.V(1, -1, 0), aeno.V(1, 1, 0)),
		aeno.NewTriangleForPoints(aeno.V(-1, -1, 0), aeno.V(1, 1, 0), aeno.V(-1, 1, 0)),
	})
}

func slide(node string, to aeno.Vector) *aeno.Track {
	return &aeno.Track{
		Node:   node,
		Path:   aeno.PathTranslation,
		Times:  []float32{0, 2},
		Values: []float32{0, 0, 0, float32(to.X), float32(to.Y), float32(to.Z)},
	}
}

// sceneAsset mirrors the exported cube and sphere file
func sceneAsset(clips ...string) *aeno.Asset {
	root := aeno.NewGroup("Scene")
	cube := aeno.NewMeshObject(CubeName, quad(), aeno.NewStandardMaterial(aeno.White))
	sphere := aeno.NewMeshObject(SphereName, quad(), aeno.NewStandardMaterial(aeno.White))
	sphere.Position = aeno.V(-2, 0, 0)
	root.Add(cube, sphere)
	a := &aeno.Asset{Scene: root}
	for _, name := range clips {
		switch name {
		case CubeClip:
			a.Animations = append(a.Animations, aeno.NewClip(name, []*aeno.Track{slide(CubeName, aeno.V(0, 1, 0))}))
		case SphereClip:
			a.Animations = append(a.Animations, aeno.NewClip(name, []*aeno.Track{slide(SphereName, aeno.V(0, -1, 0))}))
		default:
			a.Animations = append(a.Animations, aeno.NewClip(name, nil))
		}
	}
	return a
}

func fullSceneAsset() *aeno.Asset {
	return sceneAsset(CubeClip, SphereClip)
}

// coneAsset holds a single mesh named name
func coneAsset(name string) *aeno.Asset {
	root := aeno.NewGroup("Scene")
	root.Add(aeno.NewMeshObject(name, quad(), aeno.NewStandardMaterial(aeno.HexColor("ff8800"))))
	return &aeno.Asset{Scene: root}
}

func patternTexture() *aeno.ImageTexture {
	return aeno.NewImageTexture(image.NewNRGBA(image.Rect(0, 0, 4, 4)))
}

// describe renders the observable state of a context as text
func describe(sc *SceneContext) string {
	var b strings.Builder
	var walk func(o *aeno.Object, depth int)
	walk = func(o *aeno.Object, depth int) {
		fmt.Fprintf(&b, "%s%s pos=%v rot=%v scale=%v", strings.Repeat(" ", depth), o.Name, o.Position, o.Rotation, o.Scale)
		switch m := o.Material.(type) {
		case *aeno.StandardMaterial:
			fmt.Fprintf(&b, " standard=%v map=%v", m.Color, m.Map != nil)
		case *aeno.ShaderMaterial:
			keys := make([]string, 0, len(m.Uniforms))
			for k := range m.Uniforms {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&b, " %s=%v", k, m.Uniforms[k])
			}
		}
		b.WriteString("\n")
		for _, c := range o.Children {
			walk(c, depth+1)
		}
	}
	walk(sc.Scene.Root, 0)
	fmt.Fprintf(&b, "lights=%d camera=%v->%v staged=%v\n", len(sc.Scene.Lights), sc.Camera.Position, sc.Camera.Target, sc.Staged())
	fmt.Fprintf(&b, "cubeMixer=%v sphereMixer=%v texture=%v sphere=%v cone=%v\n",
		sc.CubeMixer.Present(), sc.SphereMixer.Present(), sc.CubeTexture.Present(),
		sc.SphereMaterial.Present(), sc.ConeMaterial.Present())
	return b.String()
}
