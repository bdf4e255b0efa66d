package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/milk9111/duckling/geom"
)

var ErrColor = errors.New("render: invalid colour")

type Shape int

const (
	ShapeRect Shape = iota + 1
	ShapeCircle
	ShapeLine
	ShapeImage
	ShapeText
)

func (s Shape) String() string {
	switch s {
	case ShapeRect:
		return "rect"
	case ShapeCircle:
		return "circle"
	case ShapeLine:
		return "line"
	case ShapeImage:
		return "image"
	case ShapeText:
		return "text"
	}
	return "unknown"
}

// SelectionColor outlines the selected entity.
var SelectionColor = color.RGBA{R: 0x88, G: 0x13, B: 0xaa, A: 0xff}

// Directive is one primitive to draw in stage coordinates. Which fields
// matter depends on Shape.
type Directive struct {
	Shape Shape

	// Box bounds rects, images and text.
	Box geom.Box
	// Center and Radius describe circles.
	Center geom.Vector
	Radius float64
	// From and To describe lines.
	From, To geom.Vector

	Color       color.RGBA
	Fill        bool
	StrokeWidth float64

	// Rotation is applied around Origin, in radians.
	Rotation float64
	Origin   geom.Vector

	// Asset is the texture key of an image or the font key of text.
	Asset    string
	Text     string
	TextSize float64
}

func Rect(box geom.Box, clr color.RGBA, fill bool) Directive {
	return Directive{Shape: ShapeRect, Box: box, Color: clr, Fill: fill, StrokeWidth: 1}
}

func Circle(center geom.Vector, radius float64, clr color.RGBA, fill bool) Directive {
	return Directive{Shape: ShapeCircle, Center: center, Radius: radius, Color: clr, Fill: fill, StrokeWidth: 1}
}

func Line(from, to geom.Vector, clr color.RGBA, width float64) Directive {
	return Directive{Shape: ShapeLine, From: from, To: to, Color: clr, StrokeWidth: width}
}

func Image(texture string, box geom.Box) Directive {
	return Directive{Shape: ShapeImage, Box: box, Asset: texture, Color: color.RGBA{0xff, 0xff, 0xff, 0xff}}
}

func Text(font, text string, size float64, box geom.Box, clr color.RGBA) Directive {
	return Directive{Shape: ShapeText, Box: box, Asset: font, Text: text, TextSize: size, Color: clr}
}

// Rotated returns d turned by radians around origin.
func (d Directive) Rotated(origin geom.Vector, radians float64) Directive {
	d.Origin = origin
	d.Rotation = radians
	return d
}

// Bounds returns the axis-aligned stage area d covers.
func (d Directive) Bounds() geom.Box {
	var b geom.Box
	switch d.Shape {
	case ShapeCircle:
		b = geom.BoxAround(d.Center, geom.Vec(2*d.Radius, 2*d.Radius))
	case ShapeLine:
		b = geom.Box{
			L: math.Min(d.From.X, d.To.X), B: math.Min(d.From.Y, d.To.Y),
			R: math.Max(d.From.X, d.To.X), T: math.Max(d.From.Y, d.To.Y),
		}
	default:
		b = d.Box
	}
	return geom.RotatedBounds(b, d.Origin, d.Rotation)
}

// ParseColor accepts an SVG colour name ("steelblue") or a hex triplet
// ("#4682b4", optionally with alpha as a fourth byte).
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrColor, s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
