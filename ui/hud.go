// Package ui is the ebitenui overlay: score badge, ranking panel, restart
// and copy buttons, and the modal used for the name prompt and alerts.
package ui

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"sync"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/suika/score"
	"github.com/milk9111/suika/session"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

// PanelWidth is the width of the side panel to the right of the field.
const PanelWidth = 240

var (
	panelColor  = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xF0}
	badgeColor  = color.NRGBA{R: 0xFF, G: 0x6B, B: 0x6B, A: 0xFF}
	buttonColor = color.NRGBA{R: 0xFF, G: 0x8E, B: 0x53, A: 0xFF}
	buttonHover = color.NRGBA{R: 0xFF, G: 0xA8, B: 0x70, A: 0xFF}
	borderColor = color.NRGBA{R: 0xFF, G: 0xD9, B: 0x3D, A: 0xFF}
	inkColor    = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF}
	mutedColor  = color.NRGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xFF}
)

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// HUD implements session.Prompter on top of an ebitenui tree.
type HUD struct {
	UI *ebitenui.UI

	face  ebtext.Face
	large ebtext.Face

	score   *widget.Text
	next    *widget.Text
	ranking *widget.Text
	status  *widget.Text

	overlay   *widget.Container
	message   *widget.Text
	nameInput *widget.TextInput
	cancelBtn *widget.Button

	submit  func(name string, ok bool)
	dismiss func()
	lastTxt string

	OnRestart func()
}

var _ session.Prompter = (*HUD)(nil)

func NewHUD() *HUD {
	h := &HUD{}
	h.face, h.large = loadFaces()

	side := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(14),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 24, Left: 16, Right: 16, Bottom: 16}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(PanelWidth, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchVertical:    true,
			}),
		),
	)

	badge := h.panel(badgeColor)
	h.score = widget.NewText(widget.TextOpts.Text("Score: 0", &h.large, color.White))
	badge.AddChild(h.score)
	side.AddChild(badge)

	h.next = widget.NewText(widget.TextOpts.Text("", &h.face, inkColor))
	side.AddChild(h.next)

	side.AddChild(h.button("Recommencer", func() {
		if h.ModalOpen() {
			return
		}
		if h.OnRestart != nil {
			h.OnRestart()
		}
	}))

	board := h.panel(panelColor)
	board.AddChild(widget.NewText(widget.TextOpts.Text(score.RankingTitle, &h.large, inkColor)))
	h.ranking = widget.NewText(widget.TextOpts.Text(score.EmptyRanking, &h.face, mutedColor))
	board.AddChild(h.ranking)
	side.AddChild(board)

	side.AddChild(h.button("Copier le classement", h.copyRanking))
	h.status = widget.NewText(widget.TextOpts.Text("", &h.face, mutedColor))
	side.AddChild(h.status)

	h.overlay = h.buildModal()

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(side)
	root.AddChild(h.overlay)
	h.UI = &ebitenui.UI{Container: root}
	return h
}

func loadFaces() (ebtext.Face, ebtext.Face) {
	s, err := ebtext.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Printf("ui: load font: %v", err)
		f := ebtext.Face(ebtext.NewGoXFace(basicfont.Face7x13))
		return f, f
	}
	return &ebtext.GoTextFace{Source: s, Size: 14}, &ebtext.GoTextFace{Source: s, Size: 20}
}

func (h *HUD) panel(bg color.Color) *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewBorderedNineSliceColor(bg, borderColor, 2)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 12, Bottom: 12, Left: 14, Right: 14}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true}),
		),
	)
}

func (h *HUD) button(label string, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{
			Idle:    imageui.NewNineSliceColor(buttonColor),
			Hover:   imageui.NewNineSliceColor(buttonHover),
			Pressed: imageui.NewNineSliceColor(badgeColor),
		}),
		widget.ButtonOpts.Text(label, &h.face, &widget.ButtonTextColor{Idle: color.White}),
		widget.ButtonOpts.TextPadding(&widget.Insets{Top: 8, Bottom: 8, Left: 12, Right: 12}),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true})),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onClick()
		}),
	)
}

func (h *HUD) buildModal() *widget.Container {
	overlay := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
				StretchHorizontal:  true,
				StretchVertical:    true,
			}),
			widget.WidgetOpts.MinSize(1, 1),
		),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(color.NRGBA{A: 160})),
	)
	overlay.GetWidget().Visibility = widget.Visibility_Hide

	dialog := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(380, 150),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
		widget.ContainerOpts.BackgroundImage(imageui.NewBorderedNineSliceColor(panelColor, borderColor, 3)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 18, Bottom: 18, Left: 20, Right: 20}),
		)),
	)

	h.message = widget.NewText(
		widget.TextOpts.Text("", &h.face, inkColor),
		widget.TextOpts.MaxWidth(340),
	)
	h.nameInput = widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(widget.WidgetOpts.MinSize(340, 28)),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     imageui.NewNineSliceColor(color.NRGBA{R: 245, G: 245, B: 245, A: 255}),
			Disabled: imageui.NewNineSliceColor(color.NRGBA{R: 200, G: 200, B: 200, A: 255}),
		}),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:     color.Black,
			Disabled: color.Gray{Y: 120},
			Caret:    color.Black,
		}),
		widget.TextInputOpts.Face(&h.face),
		widget.TextInputOpts.SubmitOnEnter(true),
		widget.TextInputOpts.SubmitHandler(func(args *widget.TextInputChangedEventArgs) {
			h.answer(args.InputText, true)
		}),
	)

	buttons := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewRowLayout(
		widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
		widget.RowLayoutOpts.Spacing(8),
	)))
	buttons.AddChild(h.button("OK", func() {
		if h.submit != nil {
			h.answer(h.nameInput.GetText(), true)
			return
		}
		h.acknowledge()
	}))
	h.cancelBtn = h.button("Annuler", func() { h.answer("", false) })
	buttons.AddChild(h.cancelBtn)

	dialog.AddChild(h.message)
	dialog.AddChild(h.nameInput)
	dialog.AddChild(buttons)
	overlay.AddChild(dialog)
	return overlay
}

// PromptName opens the modal with a text field.
func (h *HUD) PromptName(message string, submit func(name string, ok bool)) {
	h.submit = submit
	h.dismiss = nil
	h.message.Label = message
	h.nameInput.SetText("")
	h.nameInput.GetWidget().Visibility = widget.Visibility_Show
	h.cancelBtn.GetWidget().Visibility = widget.Visibility_Show
	h.overlay.GetWidget().Visibility = widget.Visibility_Show
	h.nameInput.Focus(true)
}

// Alert opens the modal with a single OK button.
func (h *HUD) Alert(message string, dismiss func()) {
	h.submit = nil
	h.dismiss = dismiss
	h.message.Label = message
	h.nameInput.GetWidget().Visibility = widget.Visibility_Hide
	h.cancelBtn.GetWidget().Visibility = widget.Visibility_Hide
	h.overlay.GetWidget().Visibility = widget.Visibility_Show
}

func (h *HUD) ModalOpen() bool {
	return h.overlay.GetWidget().Visibility == widget.Visibility_Show
}

func (h *HUD) answer(name string, ok bool) {
	submit := h.submit
	if submit == nil {
		return
	}
	h.submit = nil
	h.nameInput.Focus(false)
	h.close()
	submit(name, ok)
}

func (h *HUD) acknowledge() {
	dismiss := h.dismiss
	h.dismiss = nil
	h.close()
	if dismiss != nil {
		dismiss()
	}
}

func (h *HUD) close() {
	h.overlay.GetWidget().Visibility = widget.Visibility_Hide
}

func (h *HUD) SetScore(n int) {
	h.score.Label = fmt.Sprintf("Score: %d", n)
}

func (h *HUD) SetNext(name string) {
	if name == "" {
		h.next.Label = ""
		return
	}
	h.next.Label = "Fruit : " + name
}

func (h *HUD) SetRanking(entries []score.Entry) {
	h.lastTxt = score.FormatRanking(entries)
	h.ranking.Label = h.lastTxt
	if len(entries) == 0 {
		h.ranking.SetColor(mutedColor)
	} else {
		h.ranking.SetColor(inkColor)
	}
}

func (h *HUD) copyRanking() {
	clipboardOnce.Do(func() { clipboardErr = clipboard.Init() })
	if clipboardErr != nil {
		log.Printf("ui: clipboard unavailable: %v", clipboardErr)
		h.status.Label = "Presse-papiers indisponible"
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(score.RankingTitle+"\n"+h.lastTxt))
	h.status.Label = "Classement copié !"
}

// Update runs the widget tree. Enter or Escape closes an alert and Escape
// cancels the prompt; keys are sampled before the tree runs so the Enter
// that submits a name does not also close the alert that follows.
func (h *HUD) Update() {
	enter := inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter)
	escape := inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	closeAlert := h.ModalOpen() && h.submit == nil && (enter || escape)
	cancelPrompt := h.ModalOpen() && h.submit != nil && escape

	h.UI.Update()

	switch {
	case cancelPrompt:
		h.answer("", false)
	case closeAlert:
		h.acknowledge()
	}
}

func (h *HUD) Draw(screen *ebiten.Image) {
	h.UI.Draw(screen)
}
