package aeno

import "github.com/fogleman/simplify"

// SimplifyMesh reduces a mesh to roughly factor of its triangles with
// quadric error metrics. Normals are recomputed per face; texture
// coordinates and vertex colours are dropped.
func SimplifyMesh(mesh *Mesh, factor float64) *Mesh {
	if len(mesh.Triangles) == 0 {
		return mesh
	}
	in := make([]*simplify.Triangle, len(mesh.Triangles))
	for i, t := range mesh.Triangles {
		in[i] = &simplify.Triangle{
			V1: toSimplify(t.V1.Position),
			V2: toSimplify(t.V2.Position),
			V3: toSimplify(t.V3.Position),
		}
	}
	out := simplify.NewMesh(in).Simplify(factor)
	triangles := make([]*Triangle, 0, len(out.Triangles))
	for _, t := range out.Triangles {
		triangles = append(triangles, NewTriangleForPoints(fromSimplify(t.V1), fromSimplify(t.V2), fromSimplify(t.V3)))
	}
	return NewMesh(triangles, mesh.Lines)
}

func toSimplify(v Vector) simplify.Vector {
	return simplify.Vector{X: v.X, Y: v.Y, Z: v.Z}
}

func fromSimplify(v simplify.Vector) Vector {
	return Vector{v.X, v.Y, v.Z}
}
