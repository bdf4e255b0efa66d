package main

import (
	"errors"
	"fmt"
	"image"

	ebuiinput "github.com/ebitenui/ebitenui/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/session"
	"github.com/milk9111/duckling/state"
)

// EditorGame is the Ebiten game for the editor.
type EditorGame struct {
	s      *session.Session
	ui     *EditorUI
	canvas *Canvas

	status string
	width  int
	height int
}

func NewEditorGame(s *session.Session) *EditorGame {
	g := &EditorGame{s: s}
	g.canvas = NewCanvas(s)
	g.ui = BuildEditorUI(s, g.report)
	return g
}

// report shows err in the status line.
func (g *EditorGame) report(err error) {
	if err == nil {
		return
	}
	if isMissing(err) {
		g.s.Log.Debug("editor", zap.Error(err))
		return
	}
	g.s.Log.Warn("editor", zap.Error(err))
	g.status = err.Error()
}

func (g *EditorGame) Update() error {
	g.s.Poll()
	g.ui.UI.Update()
	g.handleShortcuts()

	g.canvas.Rect = image.Rect(leftPanelWidth, 0, g.width-rightPanelWidth, g.height)
	g.canvas.Update()

	g.ui.ToolBar.Select(g.s.Tools.Current().Key())
	g.ui.Entities.Refresh()
	g.ui.RefreshEntities(g.s)
	g.ui.RefreshPrefabs(g.s)
	return nil
}

func ctrl() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
}

func (g *EditorGame) handleShortcuts() {
	if ctrl() {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyZ) && ebiten.IsKeyPressed(ebiten.KeyShift):
			g.s.Store.Redo()
		case inpututil.IsKeyJustPressed(ebiten.KeyZ):
			g.s.Store.Undo()
		case inpututil.IsKeyJustPressed(ebiten.KeyY):
			g.s.Store.Redo()
		case inpututil.IsKeyJustPressed(ebiten.KeyS):
			g.report(g.ui.saveMap(g.s))
			if !g.s.Levels.Dirty() {
				g.status = "saved " + g.s.Store.State().Map.Name
			}
		case inpututil.IsKeyJustPressed(ebiten.KeyC):
			g.report(g.s.CopyPaste.Copy())
		case inpututil.IsKeyJustPressed(ebiten.KeyV):
			_, err := g.s.CopyPaste.Paste(g.canvas.Cursor(), g.s.Store.NewMergeKey())
			g.report(err)
		}
		return
	}
	if ebuiinput.UIHovered {
		return
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete):
		g.s.DeleteSelected(g.s.Store.NewMergeKey())
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.s.Selection.Deselect(state.NoMerge)
	}
}

func (g *EditorGame) Draw(screen *ebiten.Image) {
	g.canvas.Draw(screen)
	g.ui.UI.Draw(screen)

	st := g.s.Store.State()
	name := st.Map.Name
	if name == "" {
		name = "(unnamed)"
	}
	if g.s.Levels.Dirty() {
		name += "*"
	}
	cursor := g.canvas.Cursor()
	line := fmt.Sprintf("%s | %d entities | zoom %.0f%% | %.0f, %.0f | undo %d redo %d",
		name, st.Entities.Len(), g.s.Viewport.Zoom*100, cursor.X, cursor.Y,
		g.s.Store.HistoryLen(), g.s.Store.RedoLen())
	if g.status != "" {
		line += " | " + g.status
	}
	ebitenutil.DebugPrintAt(screen, line, leftPanelWidth+8, g.height-20)
}

func (g *EditorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// isMissing reports whether err only says an entity is gone, which happens
// when a panel acts on a selection that was just deleted.
func isMissing(err error) bool {
	return errors.Is(err, ecs.ErrEntityNotFound)
}
