package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/duckling/tools"
)

// ToolBar shows one toggle button per tool plus undo and redo.
type ToolBar struct {
	group   *widget.RadioGroup
	buttons map[string]*widget.Button
}

// Select marks key as the active tool without firing the change handler.
func (t *ToolBar) Select(key string) {
	if b, ok := t.buttons[key]; ok && t.group.Active() != widget.RadioGroupElement(b) {
		t.group.SetActive(b)
	}
}

func buildToolBar(
	theme *widget.Theme,
	fontFace *text.Face,
	options []tools.Option,
	active string,
	onToolSelected func(key string),
	onUndo, onRedo func(),
) (*widget.Container, *ToolBar) {
	buttonTextColor := &widget.ButtonTextColor{
		Idle:     color.Black,
		Hover:    color.Black,
		Pressed:  color.RGBA{0, 0, 200, 255},
		Disabled: color.Gray{Y: 128},
	}

	toolbar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(220, 40),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{220, 220, 240, 255})),
	)

	bar := &ToolBar{buttons: map[string]*widget.Button{}}
	keys := map[*widget.Button]string{}
	elements := make([]widget.RadioGroupElement, 0, len(options))
	for _, opt := range options {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(opt.Label, fontFace, buttonTextColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(96, 32),
			),
		)
		bar.buttons[opt.Key] = btn
		keys[btn] = opt.Key
		elements = append(elements, btn)
		toolbar.AddChild(btn)
	}

	bar.group = widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			if onToolSelected == nil {
				return
			}
			if b, ok := args.Active.(*widget.Button); ok {
				onToolSelected(keys[b])
			}
		}),
	)
	bar.Select(active)

	toolbar.AddChild(newButton(theme, fontFace, "Undo", onUndo))
	toolbar.AddChild(newButton(theme, fontFace, "Redo", onRedo))
	return toolbar, bar
}
