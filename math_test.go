package aeno

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

const tol = 1e-9

func assertVector(t *testing.T, want, got Vector) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "x")
	assert.InDelta(t, want.Y, got.Y, tol, "y")
	assert.InDelta(t, want.Z, got.Z, tol, "z")
}

func TestVector(t *testing.T) {
	assert.Equal(t, V(0, 0, 1), V(1, 0, 0).Cross(V(0, 1, 0)))
	assert.Equal(t, Vector{}, Vector{}.Normalize())
	assert.InDelta(t, 1, V(3, 4, 12).Normalize().Length(), tol)
	assertVector(t, V(0.5, 1, 1.5), V(0, 0, 0).Lerp(V(1, 2, 3), 0.5))

	// light straight above a flat surface reflects back up
	assertVector(t, V(0, 1, 0), V(0, 1, 0).Reflect(V(0, 1, 0)))
	assertVector(t, V(-1, 1, 0).Normalize(), V(1, 1, 0).Normalize().Reflect(V(0, 1, 0)))
}

func TestMatrix(t *testing.T) {
	p := V(1, 2, 3)
	assert.Equal(t, p, Identity().MulPosition(p))
	assertVector(t, V(2, 4, 6), Translate(V(1, 2, 3)).MulPosition(p))
	assertVector(t, V(2, 4, 6), Scale(V(2, 2, 2)).MulPosition(p))

	m := Translate(V(1, 0, 0)).Mul(Scale(V(2, 3, 4)))
	assertVector(t, p, m.Inverse().MulPosition(m.MulPosition(p)))
	assert.InDelta(t, 24, m.Determinant(), tol)
	assert.Equal(t, m, m.Transpose().Transpose())
}

func TestCompose(t *testing.T) {
	q := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	m := Compose(V(0, 0, 5), q, V(2, 2, 2))

	// scale, then rotate x onto y, then translate
	assertVector(t, V(0, 2, 5), m.MulPosition(V(1, 0, 0)))
	assertVector(t, V(0, 1, 0), m.MulDirection(V(1, 0, 0)))

	ident := Compose(Vector{}, mgl64.QuatIdent(), V(1, 1, 1))
	assert.Equal(t, Identity(), ident)
}

func TestFromColumnMajor(t *testing.T) {
	m := FromColumnMajor([16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 7, 8, 9, 1})
	assert.Equal(t, Translate(V(7, 8, 9)), m)
}

func TestColor(t *testing.T) {
	assert.Equal(t, Color{1, 0, 0, 1}, HexColor("#f00"))
	assert.Equal(t, Color{1, 1, 1, 1}, HexColor("ffffff"))
	assert.Equal(t, Color{0, 0, 0, 0}, HexColor("00000000"))
	assert.Equal(t, "44aa88", HexInt(0x44aa88).Hex())
	assert.Equal(t, HexColor("404040"), HexInt(0x404040))

	c := RGB(0.2, 0.4, 0.6)
	assert.Equal(t, 1.0, c.A)
	half := c.MulScalar(0.5).AddScalar(0.5)
	assert.InDelta(t, 0.6, half.R, tol)
	assert.InDelta(t, 0.8, half.B, tol)

	n := Color{2, -1, 0.5, 1}.NRGBA()
	assert.Equal(t, uint8(255), n.R)
	assert.Equal(t, uint8(0), n.G)
	assert.Equal(t, uint8(128), n.B)
}
