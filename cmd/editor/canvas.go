package main

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"strings"

	ebuiinput "github.com/ebitenui/ebitenui/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"

	"github.com/milk9111/duckling/assets"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/render"
	"github.com/milk9111/duckling/session"
)

var (
	canvasBackground = color.RGBA{30, 30, 36, 255}
	mapBackground    = color.RGBA{52, 52, 60, 255}
	gridColor        = color.RGBA{70, 70, 80, 255}
)

// Canvas draws the map and feeds pointer input on the stage to the active
// tool.
type Canvas struct {
	s *session.Session

	// Rect is the screen area of the canvas.
	Rect image.Rectangle

	pixel    *ebiten.Image
	textures map[string]*ebiten.Image
	fonts    map[string]*text.GoTextFaceSource

	inside    bool
	panning   bool
	lastMouse geom.Vector
}

func NewCanvas(s *session.Session) *Canvas {
	c := &Canvas{
		s:        s,
		pixel:    ebiten.NewImage(1, 1),
		textures: map[string]*ebiten.Image{},
		fonts:    map[string]*text.GoTextFaceSource{},
	}
	c.pixel.Fill(color.White)
	s.Assets.Subscribe(func(a assets.Asset) {
		delete(c.textures, a.Key)
		delete(c.fonts, a.Key)
	})
	return c
}

// Cursor returns the stage position under the mouse.
func (c *Canvas) Cursor() geom.Vector {
	mx, my := ebiten.CursorPosition()
	return c.s.Viewport.ToStage(c.local(mx, my))
}

func (c *Canvas) local(mx, my int) geom.Vector {
	return geom.Vec(float64(mx-c.Rect.Min.X), float64(my-c.Rect.Min.Y))
}

// Update handles pan, zoom and tool input.
func (c *Canvas) Update() {
	mx, my := ebiten.CursorPosition()
	pos := c.local(mx, my)
	inside := image.Pt(mx, my).In(c.Rect) && !ebuiinput.UIHovered
	view := c.s.Viewport
	tool := c.s.Tools.Current()

	if inside {
		if _, wy := ebiten.Wheel(); wy != 0 {
			factor := 1.1
			if wy < 0 {
				factor = 1 / 1.1
			}
			view.ZoomAt(pos, factor)
		}
	}

	// Middle-button drag pans whatever tool is active.
	if inside && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) {
		c.panning = true
	}
	if c.panning {
		if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
			c.panning = false
		} else {
			view.Pan(pos.Sub(c.lastMouse))
		}
	}

	switch {
	case inside && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		tool.OnStageDown(view.Event(pos))
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		tool.OnStageUp(view.Event(pos))
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && pos != c.lastMouse:
		if inside {
			tool.OnStageMove(view.Event(pos))
		}
	}
	if c.inside && !inside {
		tool.OnLeaveStage()
	}
	c.inside = inside
	c.lastMouse = pos
}

// Draw renders the map, its entities and the tool overlay.
func (c *Canvas) Draw(screen *ebiten.Image) {
	if c.Rect.Empty() {
		return
	}
	dst := screen.SubImage(c.Rect).(*ebiten.Image)
	dst.Fill(canvasBackground)

	st := c.s.Store.State()
	mapBox := geom.BoxFromRect(geom.Vec(0, 0), st.Map.Dimension)
	c.drawBox(dst, mapBox, mapBackground, true)
	c.drawGrid(dst, mapBox, st.Map.GridSize)

	for _, d := range c.s.Drawer.DrawState(st) {
		c.drawDirective(dst, d)
	}
	if c.inside {
		if key, ok := c.s.Resolver.KeyAt(st.Entities, c.Cursor()); ok && key != st.Selection.Entity {
			e, _ := st.Entities.Get(key)
			if box, ok := c.s.Boxes.GetEntityBox(e); ok {
				c.highlight(dst, box)
			}
		}
	}
	for _, d := range c.s.Tools.Current().Overlay() {
		c.drawDirective(dst, d)
	}
}

func (c *Canvas) drawGrid(dst *ebiten.Image, box geom.Box, grid float64) {
	zoom := c.s.Viewport.Zoom
	if grid <= 0 || grid*zoom < 4 {
		return
	}
	for x := box.L; x <= box.R; x += grid {
		c.line(dst, geom.Vec(x, box.B), geom.Vec(x, box.T), 1, gridColor)
	}
	for y := box.B; y <= box.T; y += grid {
		c.line(dst, geom.Vec(box.L, y), geom.Vec(box.R, y), 1, gridColor)
	}
}

// screen converts a stage point to screen pixels.
func (c *Canvas) screen(p geom.Vector) (float32, float32) {
	v := c.s.Viewport.ToCanvas(p)
	return float32(v.X) + float32(c.Rect.Min.X), float32(v.Y) + float32(c.Rect.Min.Y)
}

func (c *Canvas) line(dst *ebiten.Image, from, to geom.Vector, width float64, clr color.Color) {
	x0, y0 := c.screen(from)
	x1, y1 := c.screen(to)
	vector.StrokeLine(dst, x0, y0, x1, y1, float32(width), clr, true)
}

// geoM maps a box-local pixel space of size w x h onto d's box on screen,
// applying d's rotation.
func (c *Canvas) geoM(d render.Directive, w, h float64) ebiten.GeoM {
	var m ebiten.GeoM
	size := geom.Size(d.Box)
	if w > 0 && h > 0 {
		m.Scale(size.X/w, size.Y/h)
	}
	m.Translate(d.Box.L, d.Box.B)
	if d.Rotation != 0 {
		m.Translate(-d.Origin.X, -d.Origin.Y)
		m.Rotate(d.Rotation)
		m.Translate(d.Origin.X, d.Origin.Y)
	}
	view := c.s.Viewport
	m.Translate(-view.Offset.X, -view.Offset.Y)
	m.Scale(view.Zoom, view.Zoom)
	m.Translate(float64(c.Rect.Min.X), float64(c.Rect.Min.Y))
	return m
}

func (c *Canvas) drawBox(dst *ebiten.Image, box geom.Box, clr color.RGBA, fill bool) {
	c.drawDirective(dst, render.Rect(box, clr, fill))
}

func (c *Canvas) drawDirective(dst *ebiten.Image, d render.Directive) {
	switch d.Shape {
	case render.ShapeRect:
		if d.Fill {
			op := &ebiten.DrawImageOptions{GeoM: c.geoM(d, 1, 1)}
			op.ColorScale.ScaleWithColor(d.Color)
			dst.DrawImage(c.pixel, op)
			return
		}
		corners := []geom.Vector{
			{X: d.Box.L, Y: d.Box.B}, {X: d.Box.R, Y: d.Box.B},
			{X: d.Box.R, Y: d.Box.T}, {X: d.Box.L, Y: d.Box.T},
		}
		if d.Rotation != 0 {
			rot := geom.Vec(math.Cos(d.Rotation), math.Sin(d.Rotation))
			for i, p := range corners {
				corners[i] = p.Sub(d.Origin).Rotate(rot).Add(d.Origin)
			}
		}
		for i := range corners {
			c.line(dst, corners[i], corners[(i+1)%len(corners)], d.StrokeWidth, d.Color)
		}
	case render.ShapeCircle:
		x, y := c.screen(d.Center)
		r := float32(d.Radius * c.s.Viewport.Zoom)
		if d.Fill {
			vector.FillCircle(dst, x, y, r, d.Color, true)
		} else {
			vector.StrokeCircle(dst, x, y, r, float32(d.StrokeWidth), d.Color, true)
		}
	case render.ShapeLine:
		c.line(dst, d.From, d.To, d.StrokeWidth, d.Color)
	case render.ShapeImage:
		img := c.texture(d.Asset)
		if img == nil {
			return
		}
		b := img.Bounds()
		op := &ebiten.DrawImageOptions{GeoM: c.geoM(d, float64(b.Dx()), float64(b.Dy()))}
		op.Filter = ebiten.FilterNearest
		dst.DrawImage(img, op)
	case render.ShapeText:
		src := c.font(d.Asset)
		if src == nil {
			return
		}
		face := &text.GoTextFace{Source: src, Size: d.TextSize}
		lines := strings.Count(d.Text, "\n") + 1
		size := geom.Size(d.Box)
		op := &text.DrawOptions{}
		op.GeoM = c.geoM(d, size.X, size.Y)
		op.LineSpacing = size.Y / float64(lines)
		op.ColorScale.ScaleWithColor(d.Color)
		text.Draw(dst, d.Text, face, op)
	}
}

func (c *Canvas) texture(key string) *ebiten.Image {
	if img, ok := c.textures[key]; ok {
		return img
	}
	src, ok := c.s.Assets.Texture(key)
	if !ok {
		return nil
	}
	img := ebiten.NewImageFromImage(src)
	c.textures[key] = img
	return img
}

func (c *Canvas) font(key string) *text.GoTextFaceSource {
	if f, ok := c.fonts[key]; ok {
		return f
	}
	fd, ok := c.s.Assets.Font(key)
	if !ok {
		return nil
	}
	f, err := text.NewGoTextFaceSource(bytes.NewReader(fd.Data))
	if err != nil {
		c.s.Log.Warn("font face", zap.String("font", key), zap.Error(err))
		return nil
	}
	c.fonts[key] = f
	return f
}

// highlight outlines box, used for the hovered entity.
func (c *Canvas) highlight(dst *ebiten.Image, box geom.Box) {
	c.drawDirective(dst, render.Rect(box, colornames.Yellow, false))
}
