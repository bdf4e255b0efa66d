package assets

import (
	"fmt"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/milk9111/duckling/geom"
)

// FontData is a parsed TrueType font. Data keeps the raw file so renderers
// can build their own faces from it.
type FontData struct {
	Data []byte
	font *opentype.Font
}

func parseFont(data []byte) (*FontData, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("assets: parse font: %w", err)
	}
	return &FontData{Data: data, font: f}, nil
}

// Measure returns the width and height of text set at size pixels. Each
// line adds one line height.
func (f *FontData) Measure(text string, size float64) (geom.Vector, error) {
	if size <= 0 {
		return geom.Vector{}, nil
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return geom.Vector{}, fmt.Errorf("assets: font face: %w", err)
	}
	defer face.Close()

	lines := strings.Split(text, "\n")
	width := 0.0
	for _, line := range lines {
		w := float64(font.MeasureString(face, line)) / 64
		if w > width {
			width = w
		}
	}
	height := float64(face.Metrics().Height) / 64 * float64(len(lines))
	return geom.Vec(width, height), nil
}
