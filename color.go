package aeno

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

var (
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
	Transparent = Color{}
)

// Color holds linear RGBA components in [0, 1]
type Color struct {
	R, G, B, A float64
}

// RGB returns an opaque colour
func RGB(r, g, b float64) Color {
	return Color{r, g, b, 1}
}

// HexColor parses "rgb", "rrggbb" or "rrggbbaa" with an optional leading '#'.
// Unparsable input yields black.
func HexColor(x string) Color {
	x = strings.TrimPrefix(x, "#")
	var r, g, b, a int
	a = 255
	switch len(x) {
	case 3:
		fmt.Sscanf(x, "%1x%1x%1x", &r, &g, &b)
		r = (r << 4) | r
		g = (g << 4) | g
		b = (b << 4) | b
	case 6:
		fmt.Sscanf(x, "%02x%02x%02x", &r, &g, &b)
	case 8:
		fmt.Sscanf(x, "%02x%02x%02x%02x", &r, &g, &b, &a)
	}
	const d = 0xff
	return Color{float64(r) / d, float64(g) / d, float64(b) / d, float64(a) / d}
}

// HexInt converts a 0xrrggbb literal
func HexInt(x uint32) Color {
	const d = 0xff
	r := (x >> 16) & 0xff
	g := (x >> 8) & 0xff
	b := x & 0xff
	return Color{float64(r) / d, float64(g) / d, float64(b) / d, 1}
}

// MakeColor converts any image colour, un-premultiplying alpha
func MakeColor(c color.Color) Color {
	r, g, b, a := c.RGBA()
	const d = 0xffff
	if a == 0 {
		return Transparent
	}
	return Color{float64(r) / float64(a), float64(g) / float64(a), float64(b) / float64(a), float64(a) / d}
}

func (c Color) NRGBA() color.NRGBA {
	const d = 0xff
	r := Clamp(c.R, 0, 1)
	g := Clamp(c.G, 0, 1)
	b := Clamp(c.B, 0, 1)
	a := Clamp(c.A, 0, 1)
	return color.NRGBA{uint8(r*d + 0.5), uint8(g*d + 0.5), uint8(b*d + 0.5), uint8(a*d + 0.5)}
}

func (c Color) Hex() string {
	n := c.NRGBA()
	return fmt.Sprintf("%02x%02x%02x", n.R, n.G, n.B)
}

func (a Color) Add(b Color) Color {
	return Color{a.R + b.R, a.G + b.G, a.B + b.B, a.A + b.A}
}

func (a Color) Sub(b Color) Color {
	return Color{a.R - b.R, a.G - b.G, a.B - b.B, a.A - b.A}
}

func (a Color) Mul(b Color) Color {
	return Color{a.R * b.R, a.G * b.G, a.B * b.B, a.A * b.A}
}

func (a Color) MulScalar(b float64) Color {
	return Color{a.R * b, a.G * b, a.B * b, a.A * b}
}

func (a Color) AddScalar(b float64) Color {
	return Color{a.R + b, a.G + b, a.B + b, a.A + b}
}

func (a Color) DivScalar(b float64) Color {
	return Color{a.R / b, a.G / b, a.B / b, a.A / b}
}

func (a Color) Min(b Color) Color {
	return Color{math.Min(a.R, b.R), math.Min(a.G, b.G), math.Min(a.B, b.B), math.Min(a.A, b.A)}
}

func (a Color) Max(b Color) Color {
	return Color{math.Max(a.R, b.R), math.Max(a.G, b.G), math.Max(a.B, b.B), math.Max(a.A, b.A)}
}

func (a Color) Lerp(b Color, t float64) Color {
	return a.Add(b.Sub(a).MulScalar(t))
}

// Alpha returns the colour with its alpha replaced
func (a Color) Alpha(alpha float64) Color {
	return Color{a.R, a.G, a.B, alpha}
}
