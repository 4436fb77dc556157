package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/sheikhrachel/go-life/model"
)

const (
	aliveGlyph = 'o'
	deadGlyph  = ' '

	exitMsg         = "Press q to quit"
	gameHelpMsg     = "Press q to quit, s to save, p to pause"
	confirmationMsg = "ENTER to confirm"
	textboxSize     = 30
)

var (
	styleNormal   = tcell.StyleDefault
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleTitle    = tcell.StyleDefault.Underline(true)
	styleBold     = tcell.StyleDefault.Bold(true)
	styleError    = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

func (a *App) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		a.screen.SetContent(x, y, r, nil, style)
		x += max(1, runewidth.RuneWidth(r))
	}
}

func (a *App) drawCentered(y int, text string, style tcell.Style) {
	width, _ := a.screen.Size()
	a.drawText(width/2-runewidth.StringWidth(text)/2, y, text, style)
}

// drawBox draws a frame whose corners are at the given inclusive coordinates.
func (a *App) drawBox(top, left, bottom, right int) {
	for x := left + 1; x < right; x++ {
		a.screen.SetContent(x, top, tcell.RuneHLine, nil, styleNormal)
		a.screen.SetContent(x, bottom, tcell.RuneHLine, nil, styleNormal)
	}
	for y := top + 1; y < bottom; y++ {
		a.screen.SetContent(left, y, tcell.RuneVLine, nil, styleNormal)
		a.screen.SetContent(right, y, tcell.RuneVLine, nil, styleNormal)
	}
	a.screen.SetContent(left, top, tcell.RuneULCorner, nil, styleNormal)
	a.screen.SetContent(right, top, tcell.RuneURCorner, nil, styleNormal)
	a.screen.SetContent(left, bottom, tcell.RuneLLCorner, nil, styleNormal)
	a.screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, styleNormal)
}

func (a *App) drawMenu(m menu) {
	const (
		title       = "Welcome to the Game of Life"
		subtitle    = "Conway's B3/S23 rule"
		instruction = "Choose an option to start the game:"
	)
	width, height := a.screen.Size()
	top := height / 3

	a.screen.Clear()
	half := runewidth.StringWidth(instruction) / 2
	a.drawBox(top-2, width/2-half-2, top+9, width/2+half+2)
	a.drawCentered(top, title, styleTitle)
	a.drawCentered(top+1, subtitle, styleNormal)
	a.drawCentered(top+3, instruction, styleNormal)
	for i, label := range menuLabels {
		style := styleNormal
		if menuOption(i) == m.selected {
			style = styleSelected
		}
		a.drawCentered(top+5+i, label, style)
	}
	a.screen.Show()
}

func (a *App) drawPrompt(p prompt, box *textbox, errorMsg string) {
	width, height := a.screen.Size()
	top := height / 3
	left := width/2 - textboxSize/2

	a.screen.Clear()
	a.drawText(0, 0, exitMsg, styleNormal)

	half := runewidth.StringWidth(p.instruction) / 2
	a.drawBox(top-2, width/2-half-2, top+10, width/2+half+2)
	a.drawCentered(top, p.instruction, styleTitle)

	a.drawBox(top+2, left-1, top+4, left+textboxSize)
	a.drawText(left, top+3, box.String(), styleNormal)
	a.screen.ShowCursor(left+runewidth.StringWidth(box.String()), top+3)

	a.drawCentered(top+6, confirmationMsg, styleBold)
	if errorMsg != "" {
		a.drawCentered(top+8, errorMsg, styleError)
	}
	a.screen.Show()
}

func (a *App) drawMessage(text string) {
	_, height := a.screen.Size()
	a.screen.Clear()
	a.screen.HideCursor()
	a.drawCentered(height/2, text, styleSelected)
	a.screen.Show()
}

// gridLayout places a grid in the middle of the screen, two columns per cell.
type gridLayout struct {
	top, left int
}

// layoutGrid returns where g goes on screen, or false if it does not fit
// between the help line and the status line.
func (a *App) layoutGrid(g *model.Grid) (gridLayout, bool) {
	return a.layoutFor(g.GetHeight(), g.GetWidth())
}

// layoutFor is layoutGrid for a grid of the given size.
func (a *App) layoutFor(rows, cols int) (gridLayout, bool) {
	width, height := a.screen.Size()
	l := gridLayout{
		top:  height/2 - rows/2,
		left: width/2 - cols,
	}
	fits := l.top-1 >= 1 &&
		l.top+rows <= height-2 &&
		l.left-2 >= 0 &&
		l.left+2*cols < width
	return l, fits
}

func (a *App) drawGrid(g *model.Grid, l gridLayout, status string) {
	_, height := a.screen.Size()

	a.screen.Clear()
	a.screen.HideCursor()
	a.drawText(0, 0, gameHelpMsg, styleNormal)
	a.drawBox(l.top-1, l.left-2, l.top+g.GetHeight(), l.left+2*g.GetWidth())
	for row := range g.GetHeight() {
		for col := range g.GetWidth() {
			glyph := deadGlyph
			if g.Get(row, col) {
				glyph = aliveGlyph
			}
			a.screen.SetContent(l.left+2*col, l.top+row, glyph, nil, styleNormal)
		}
	}
	a.drawText(0, height-1, status, styleNormal)
	a.screen.Show()
}
