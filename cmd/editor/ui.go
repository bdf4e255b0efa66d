package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/session"
	"github.com/milk9111/duckling/tools"
)

const (
	leftPanelWidth  = 240
	rightPanelWidth = 300
)

// defaultsEntry creates entities from the attribute defaults rather than a
// prefab.
const defaultsEntry = "(defaults)"

// EditorUI holds the widgets the game refreshes every frame.
type EditorUI struct {
	UI       *ebitenui.UI
	ToolBar  *ToolBar
	Entities *EntityPanel

	mapName    *widget.TextInput
	mapList    *widget.List
	prefabList *widget.List
	entityList *widget.List

	mapNames    []string
	prefabNames []string
	entityKeys  []ecs.EntityKey
}

func BuildEditorUI(s *session.Session, report func(error)) *EditorUI {
	ui := &ebitenui.UI{}

	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}
	var fontFace text.Face = &text.GoTextFace{Source: src, Size: 14}
	ui.PrimaryTheme = newEditorTheme(&fontFace)
	theme := ui.PrimaryTheme

	eu := &EditorUI{UI: ui}

	toolbar, bar := buildToolBar(theme, &fontFace, s.Tools.Options(), s.Tools.Current().Key(),
		func(key string) { report(s.Tools.Activate(key)) },
		s.Store.Undo, s.Store.Redo)
	eu.ToolBar = bar

	left := eu.buildLeftPanel(s, theme, &fontFace, report)
	eu.Entities = NewEntityPanel(s, theme, &fontFace, report)

	// Root container: anchor layout
	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	left.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	eu.Entities.Container.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionEnd,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	// Toolbar: top center
	toolbar.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
	}
	root.AddChild(left)
	root.AddChild(eu.Entities.Container)
	root.AddChild(toolbar)
	ui.Container = root

	eu.RefreshMaps(s)
	eu.RefreshPrefabs(s)
	return eu
}

func (eu *EditorUI) buildLeftPanel(s *session.Session, theme *widget.Theme, fontFace *text.Face, report func(error)) *widget.Container {
	left := panel(leftPanelWidth)

	left.AddChild(newLabel("Map", fontFace, headerColor))
	eu.mapName = newTextInput(fontFace, 220, s.Store.State().Map.Name, nil)
	left.AddChild(eu.mapName)
	buttons := row()
	buttons.AddChild(newButton(theme, fontFace, "Save", func() {
		report(eu.saveMap(s))
	}))
	buttons.AddChild(newButton(theme, fontFace, "New", func() {
		s.Levels.NewMap(eu.mapName.GetText())
		eu.RefreshMaps(s)
	}))
	left.AddChild(buttons)

	eu.mapList = newList(fontFace, 100, func(e any) string { return e.(string) }, func(e any) {
		name := e.(string)
		if err := s.Levels.LoadMap(name); err != nil {
			report(err)
			return
		}
		eu.mapName.SetText(name)
		report(s.Preload(context.Background()))
	})
	left.AddChild(eu.mapList)

	left.AddChild(newLabel("Prefabs", fontFace, headerColor))
	eu.prefabList = newList(fontFace, 100, func(e any) string { return e.(string) }, func(e any) {
		create, ok := s.Tools.Tool(tools.EntityCreatorToolKey)
		if !ok {
			return
		}
		create.(*tools.EntityCreatorTool).Prefab = ""
		if name := e.(string); name != defaultsEntry {
			create.(*tools.EntityCreatorTool).Prefab = name
		}
		report(s.Tools.Activate(tools.EntityCreatorToolKey))
	})
	left.AddChild(eu.prefabList)

	left.AddChild(newLabel("Entities", fontFace, headerColor))
	eu.entityList = newList(fontFace, 160, func(e any) string { return string(e.(ecs.EntityKey)) }, func(e any) {
		key := e.(ecs.EntityKey)
		if sel, ok := s.Selection.Selection(); ok && sel.Key == key {
			return
		}
		report(s.Selection.Select(key, s.Store.NewMergeKey()))
	})
	left.AddChild(eu.entityList)

	left.AddChild(newLabel("Script", fontFace, headerColor))
	left.AddChild(newTextInput(fontFace, 220, "", func(name string) {
		report(runScript(s, name))
	}))
	return left
}

func (eu *EditorUI) saveMap(s *session.Session) error {
	if err := s.Levels.SaveMapAs(eu.mapName.GetText()); err != nil {
		return err
	}
	eu.RefreshMaps(s)
	return nil
}

// RefreshMaps relists the maps of the project.
func (eu *EditorUI) RefreshMaps(s *session.Session) {
	names, err := s.Levels.Maps()
	if err != nil {
		s.Log.Warn("list maps", zap.Error(err))
		return
	}
	eu.mapNames = names
	eu.mapList.SetEntries(toEntries(names))
}

// RefreshPrefabs relists the prefabs when the library changed.
func (eu *EditorUI) RefreshPrefabs(s *session.Session) {
	names := append([]string{defaultsEntry}, s.Prefabs.Names()...)
	if slices.Equal(names, eu.prefabNames) {
		return
	}
	eu.prefabNames = names
	eu.prefabList.SetEntries(toEntries(names))
}

// RefreshEntities relists the entities when keys were added, removed or
// renamed.
func (eu *EditorUI) RefreshEntities(s *session.Session) {
	keys := s.Entities.EntitySystem().Keys()
	if slices.Equal(keys, eu.entityKeys) {
		return
	}
	eu.entityKeys = keys
	eu.entityList.SetEntries(toEntries(keys))
}

func runScript(s *session.Session, name string) error {
	if name == "" {
		return nil
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Config.Project, s.Config.Scripts, name)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}
	res, err := s.Scripts.Run(context.Background(), string(src))
	if err != nil {
		return err
	}
	for _, line := range res.Output {
		s.Log.Info("script", zap.String("file", name), zap.String("out", line))
	}
	return nil
}

func toEntries[T any](items []T) []any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		out = append(out, it)
	}
	return out
}
