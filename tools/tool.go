// Package tools implements the canvas tools: pointer gestures turned into
// dispatches against the session store.
package tools

import (
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/render"
)

// Event is a pointer event on the canvas.
type Event struct {
	// Canvas is the pointer position in screen pixels relative to the canvas.
	Canvas geom.Vector
	// Stage is the same position in stage coordinates.
	Stage geom.Vector
}

// Tool reacts to pointer gestures on the canvas. Only the active tool
// receives events.
type Tool interface {
	Key() string
	Label() string
	OnStageDown(ev Event)
	OnStageMove(ev Event)
	OnStageUp(ev Event)
	OnLeaveStage()
	// Overlay is drawn above the map while the tool is active.
	Overlay() []render.Directive
}

// Base implements every Tool callback as a no-op.
type Base struct{}

func (Base) OnStageDown(Event)           {}
func (Base) OnStageMove(Event)           {}
func (Base) OnStageUp(Event)             {}
func (Base) OnLeaveStage()               {}
func (Base) Overlay() []render.Directive { return nil }

// Viewport maps canvas pixels to stage coordinates.
type Viewport struct {
	// Offset is the stage position shown at the canvas origin.
	Offset geom.Vector
	Zoom   float64
}

const (
	MinZoom = 0.1
	MaxZoom = 8
)

func NewViewport() *Viewport {
	return &Viewport{Zoom: 1}
}

func (v *Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

// ToStage converts a canvas position to stage coordinates.
func (v *Viewport) ToStage(canvas geom.Vector) geom.Vector {
	return canvas.Mult(1 / v.zoom()).Add(v.Offset)
}

// ToCanvas converts a stage position to canvas pixels.
func (v *Viewport) ToCanvas(stage geom.Vector) geom.Vector {
	return stage.Sub(v.Offset).Mult(v.zoom())
}

// Pan moves the view by delta canvas pixels.
func (v *Viewport) Pan(delta geom.Vector) {
	v.Offset = v.Offset.Sub(delta.Mult(1 / v.zoom()))
}

// ZoomAt multiplies the zoom by factor keeping the stage point under canvas
// fixed.
func (v *Viewport) ZoomAt(canvas geom.Vector, factor float64) {
	if factor <= 0 {
		return
	}
	anchor := v.ToStage(canvas)
	v.Zoom = min(max(v.zoom()*factor, MinZoom), MaxZoom)
	v.Offset = anchor.Sub(canvas.Mult(1 / v.Zoom))
}

// Event builds a pointer event for a canvas position.
func (v *Viewport) Event(canvas geom.Vector) Event {
	return Event{Canvas: canvas, Stage: v.ToStage(canvas)}
}
