package main

import (
	"fmt"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/session"
)

// EntityPanel edits the selected entity: its key, its attributes through
// their forms, and which attributes it has.
type EntityPanel struct {
	Container *widget.Container

	s        *session.Session
	theme    *widget.Theme
	fontFace *text.Face
	report   func(err error)

	key    ecs.EntityKey
	entity ecs.Entity
	shown  bool
}

func NewEntityPanel(s *session.Session, theme *widget.Theme, fontFace *text.Face, report func(error)) *EntityPanel {
	p := &EntityPanel{
		Container: panel(300),
		s:         s,
		theme:     theme,
		fontFace:  fontFace,
		report:    report,
	}
	p.rebuild()
	return p
}

// Refresh rebuilds the panel when the selected entity changed.
func (p *EntityPanel) Refresh() {
	sel, ok := p.s.Selection.Selection()
	if ok == p.shown && sel.Key == p.key && (!ok || sel.Entity.Same(p.entity)) {
		return
	}
	p.rebuild()
}

func (p *EntityPanel) rebuild() {
	sel, ok := p.s.Selection.Selection()
	p.key, p.entity, p.shown = sel.Key, sel.Entity, ok

	c := p.Container
	c.RemoveChildren()
	c.AddChild(newLabel("Entity", p.fontFace, headerColor))
	if !ok {
		c.AddChild(newLabel("Nothing selected", p.fontFace, labelColor))
		return
	}

	key := sel.Key
	c.AddChild(newTextInput(p.fontFace, 280, string(key), func(name string) {
		p.report(p.s.Entities.RenameEntity(key, ecs.EntityKey(name), p.s.Store.NewMergeKey()))
	}))

	for _, attr := range sel.Entity.Keys() {
		p.addAttribute(key, sel.Entity, attr)
	}

	if avail := p.s.Defaults.AvailableAttributes(sel.Entity); len(avail) > 0 {
		c.AddChild(newLabel("Add attribute", p.fontFace, headerColor))
		list := newList(p.fontFace, 90, func(e any) string { return e.(string) }, func(e any) {
			p.report(p.s.AddAttribute(key, e.(string), p.s.Store.NewMergeKey()))
		})
		entries := make([]any, 0, len(avail))
		for _, a := range avail {
			entries = append(entries, a)
		}
		list.SetEntries(entries)
		c.AddChild(list)
	}

	c.AddChild(newButton(p.theme, p.fontFace, "Delete Entity", func() {
		p.s.DeleteSelected(p.s.Store.NewMergeKey())
	}))
}

func (p *EntityPanel) addAttribute(key ecs.EntityKey, e ecs.Entity, attr ecs.AttributeKey) {
	header := row()
	header.AddChild(newLabel(attr, p.fontFace, headerColor))
	header.AddChild(newButton(p.theme, p.fontFace, "x", func() {
		p.report(p.s.RemoveAttribute(key, attr, p.s.Store.NewMergeKey()))
	}))
	p.Container.AddChild(header)

	form, ok := p.s.Form(attr)
	if !ok {
		p.Container.AddChild(newLabel("(no editor)", p.fontFace, labelColor))
		return
	}
	value, _ := e.Get(attr)
	for i, f := range form {
		current, err := f.Text(value)
		if err != nil {
			p.s.Log.Warn("form field", zap.String("attribute", attr), zap.String("field", f.Label), zap.Error(err))
			continue
		}
		label := f.Label
		if len(f.Options) > 0 {
			label = fmt.Sprintf("%s %v", f.Label, f.Options)
		}
		p.Container.AddChild(newLabel(label, p.fontFace, labelColor))
		p.Container.AddChild(newTextInput(p.fontFace, 280, current, func(input string) {
			p.report(p.s.SetField(key, attr, i, input, p.s.Store.NewMergeKey()))
		}))
	}
}
