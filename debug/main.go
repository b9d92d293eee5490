package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"

	aeno "github.com/netisu/aeno-showcase"
)

const defaultAsset = "public/blenderthreeanimated2.glb"

func main() {
	if err := newInspectCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newInspectCmd() *cobra.Command {
	var (
		simplify float64
		preview  string
	)
	cmd := &cobra.Command{
		Use:          "debug [asset]",
		Short:        "Print the nodes, clips and mesh stats of a glb, gltf or obj file",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultAsset
			if len(args) > 0 {
				path = args[0]
			}
			return inspect(cmd.OutOrStdout(), path, simplify, preview)
		},
	}
	cmd.Flags().Float64Var(&simplify, "simplify", 0, "keep this fraction of triangles (0 disables)")
	cmd.Flags().StringVar(&preview, "preview", "", "write a cel shaded png of the asset to this path")
	return cmd
}

func inspect(w io.Writer, path string, simplify float64, preview string) error {
	fmt.Fprintln(w, "--- STARTING DEBUG ---")
	asset, err := aeno.LoadAsset(path, aeno.LoadOptions{Simplify: simplify})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "--- NODES ---\n")
	printTree(w, asset.Scene, 0)

	fmt.Fprintf(w, "--- CLIPS ---\n")
	if len(asset.Animations) == 0 {
		fmt.Fprintln(w, "(none)")
	}
	for _, clip := range asset.Animations {
		fmt.Fprintf(w, "%s: %.3fs, %d tracks\n", clip.Name, clip.Duration, len(clip.Tracks))
		for _, t := range clip.Tracks {
			fmt.Fprintf(w, "  %s.%s %d keys\n", t.Node, t.Path, len(t.Times))
		}
	}

	box := asset.Scene.BoundingBox()
	fmt.Fprintf(w, "--- MESH STATS ---\n")
	fmt.Fprintf(w, "Triangles: %d\n", countTriangles(asset.Scene))
	if box.Empty() {
		fmt.Fprintln(w, "Bounding Box: empty")
		return nil
	}
	fmt.Fprintf(w, "Bounding Box Min: %+v\n", box.Min)
	fmt.Fprintf(w, "Bounding Box Max: %+v\n", box.Max)
	fmt.Fprintf(w, "Bounding Box Center: %+v\n", box.Center())

	if preview != "" {
		if err := renderPreview(asset, box, preview); err != nil {
			return err
		}
		fmt.Fprintf(w, "Preview written to %s\n", preview)
	}
	return nil
}

// renderPreview draws every mesh with a toon material in its base colour,
// seen from the front and above
func renderPreview(asset *aeno.Asset, box aeno.Box, path string) error {
	asset.Scene.Traverse(func(o *aeno.Object) bool {
		if !o.IsMesh() {
			return true
		}
		c := aeno.White
		if m, ok := o.Material.(*aeno.StandardMaterial); ok {
			c = m.Color
		}
		o.Material = aeno.NewToonMaterial(c)
		return true
	})
	scene := aeno.NewScene()
	scene.Background = aeno.HexColor("202020")
	scene.Add(asset.Scene)
	sun := aeno.NewDirectionalLight(aeno.White, 1)
	sun.Position = aeno.V(1, 2, 3)
	scene.AddLight(sun)

	size := box.Size()
	radius := math.Max(size.X, math.Max(size.Y, size.Z))
	camera := aeno.NewCamera(30, 1, 0.01, 1000)
	camera.Position = box.Center().Add(aeno.V(0, 0.5, 1).Normalize().MulScalar(radius * 2.5))
	camera.LookAt(box.Center())
	scene.FitCamera(camera)
	return scene.Draw(path, camera, aeno.Viewport{Width: 512, Height: 512, Scale: 2})
}

func printTree(w io.Writer, o *aeno.Object, depth int) {
	kind := "group"
	if o.IsMesh() {
		kind = fmt.Sprintf("mesh, %d triangles", len(o.Mesh.Triangles))
	}
	fmt.Fprintf(w, "%s%s (%s) pos=%+v\n", strings.Repeat("  ", depth), o.Name, kind, o.Position)
	for _, c := range o.Children {
		printTree(w, c, depth+1)
	}
}

func countTriangles(root *aeno.Object) int {
	n := 0
	root.Traverse(func(o *aeno.Object) bool {
		if o.IsMesh() {
			n += len(o.Mesh.Triangles)
		}
		return true
	})
	return n
}
