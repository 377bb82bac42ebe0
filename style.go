package rill

import (
	"fmt"
	"image/color"
	"strings"

	"cogentcore.org/core/colors"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when vertices are built.
type Color struct {
	R, G, B, A float64
}

// ColorBlack is the initial fill and stroke style of a surface.
var ColorBlack = Color{0, 0, 0, 1}

// premultiplied returns the color components scaled by alpha, as float32
// vertex colors.
func (c Color) premultiplied() (r, g, b, a float32) {
	return float32(c.R * c.A), float32(c.G * c.A), float32(c.B * c.A), float32(c.A)
}

// ParseStyle parses a CSS color string: a hex color, "rgb(r, g, b)",
// "transparent" or a CSS named color.
func ParseStyle(style string) (Color, error) {
	s := strings.TrimSpace(style)
	if s == "" {
		return Color{}, fmt.Errorf("parse style: empty")
	}
	c, err := colors.FromString(s, nil)
	if err != nil {
		return Color{}, fmt.Errorf("parse style %q: %w", style, err)
	}
	return fromRGBA(c), nil
}

// fromRGBA converts an alpha-premultiplied color to straight components.
func fromRGBA(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}
