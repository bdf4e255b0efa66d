package tools

import "github.com/milk9111/duckling/geom"

const MapMoveToolKey = "map-move"

// MapMoveTool pans the viewport while the pointer is held down.
type MapMoveTool struct {
	Base

	view    *Viewport
	last    geom.Vector
	panning bool
}

func NewMapMoveTool(view *Viewport) *MapMoveTool {
	return &MapMoveTool{view: view}
}

func (t *MapMoveTool) Key() string   { return MapMoveToolKey }
func (t *MapMoveTool) Label() string { return "Move Map" }

func (t *MapMoveTool) OnStageDown(ev Event) {
	t.last = ev.Canvas
	t.panning = true
}

func (t *MapMoveTool) OnStageMove(ev Event) {
	if !t.panning {
		return
	}
	t.view.Pan(ev.Canvas.Sub(t.last))
	t.last = ev.Canvas
}

func (t *MapMoveTool) OnStageUp(Event) { t.panning = false }

func (t *MapMoveTool) OnLeaveStage() { t.panning = false }
