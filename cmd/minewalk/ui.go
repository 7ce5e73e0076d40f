package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/vancomm/minewalk/internal/config"
	"github.com/vancomm/minewalk/internal/mines"
	"github.com/vancomm/minewalk/internal/records"
	"github.com/vancomm/minewalk/internal/session"
)

type mode int

const (
	modeName mode = iota
	modeMenu
	modeRules
	modeRecord
	modeSetup
	modeStart
	modePlay
	modeResult
	modeExit
)

const (
	maxNameLen  = 32
	maxFieldLen = 6

	boardX = 2
	boardY = 2
	// rows under the board kept for the status line and messages
	boardFooter = 3

	buttonWidth = 16
)

var menuItems = [...]string{"Play", "Rules", "Record", "Quit"}

var setupLabels = [...]string{"Rows", "Cols", "Mines"}

// startField is the setup form's Start button.
const startField = len(setupLabels)

var rules = [...]string{
	"Move with the arrow keys.",
	"Walking onto a hidden cell reveals it.",
	"Stepping on a mine ends the game.",
	"Reveal every safe cell to win.",
	"Records are saved automatically.",
}

var (
	styleDefault = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleHint    = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleName    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleButton  = tcell.StyleDefault.Background(tcell.ColorSilver).Foreground(tcell.ColorBlack)
	styleActive  = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack).Bold(true)
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleWin     = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleLose    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHidden  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleEmpty   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleNumber  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleMine    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleCursor  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

type newSessionFunc func(player string, params mines.GameParams) (*session.Session, error)

type ui struct {
	ctx        context.Context
	screen     tcell.Screen
	ledger     *records.Ledger
	newSession newSessionFunc

	mode    mode
	name    []rune
	player  string
	menu    int
	record  records.Record
	setup   [len(setupLabels)]string
	field   int
	sel     mines.Pos
	sess    *session.Session
	message string
}

func newUI(
	ctx context.Context,
	screen tcell.Screen,
	ledger *records.Ledger,
	defaults config.Game,
	rnd *rand.Rand,
) *ui {
	u := &ui{
		ctx:    ctx,
		screen: screen,
		ledger: ledger,
		newSession: func(player string, params mines.GameParams) (*session.Session, error) {
			return session.New(ledger, player, params, rnd)
		},
	}
	u.setup = [...]string{
		strconv.Itoa(defaults.Rows),
		strconv.Itoa(defaults.Cols),
		strconv.Itoa(defaults.Mines),
	}
	return u
}

func (u *ui) run() {
	for u.mode != modeExit {
		u.draw()
		ev := u.screen.PollEvent()
		if ev == nil {
			return
		}
		u.handle(ev)
	}
}

func (u *ui) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		u.screen.Sync()
	case *tcell.EventInterrupt:
		u.exit()
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			u.exit()
			return
		}
		u.key(ev)
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			u.click(ev.Position())
		}
	}
}

// exit leaves the program. A game in progress is dropped without being
// counted.
func (u *ui) exit() {
	u.dropSession()
	u.mode = modeExit
}

func (u *ui) dropSession() {
	if u.sess != nil {
		u.sess.Quit()
		u.sess = nil
	}
}

func (u *ui) toMenu() {
	u.dropSession()
	u.message = ""
	u.mode = modeMenu
}

func (u *ui) key(ev *tcell.EventKey) {
	switch u.mode {
	case modeName:
		u.keyName(ev)
	case modeMenu:
		switch ev.Key() {
		case tcell.KeyUp:
			u.menu = (u.menu + len(menuItems) - 1) % len(menuItems)
		case tcell.KeyDown, tcell.KeyTab:
			u.menu = (u.menu + 1) % len(menuItems)
		case tcell.KeyEnter:
			u.choose(u.menu)
		case tcell.KeyEscape:
			u.exit()
		}
	case modeRules, modeRecord:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyEnter {
			u.toMenu()
		}
	case modeSetup:
		u.keySetup(ev)
	case modeStart:
		if ev.Key() == tcell.KeyEscape {
			u.toMenu()
			return
		}
		if ev.Key() == tcell.KeyEnter {
			u.chooseStart(u.sel)
			return
		}
		if d, ok := direction(ev); ok {
			if next := u.sel.Step(d); u.sess.Params().PointInBounds(next) {
				u.sel = next
			}
		}
	case modePlay:
		if ev.Key() == tcell.KeyEscape {
			u.toMenu()
			return
		}
		if d, ok := direction(ev); ok {
			_, err := u.sess.Move(u.ctx, d)
			u.afterIntent(err)
		}
	case modeResult:
		u.toMenu()
	}
}

func direction(ev *tcell.EventKey) (mines.Direction, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return mines.Up, true
	case tcell.KeyDown:
		return mines.Down, true
	case tcell.KeyLeft:
		return mines.Left, true
	case tcell.KeyRight:
		return mines.Right, true
	}
	return 0, false
}

func (u *ui) keyName(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		if name := strings.TrimSpace(string(u.name)); name != "" {
			u.player = name
			u.mode = modeMenu
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(u.name) > 0 {
			u.name = u.name[:len(u.name)-1]
		}
	case tcell.KeyEscape:
		u.exit()
	case tcell.KeyRune:
		if r := ev.Rune(); unicode.IsPrint(r) && len(u.name) < maxNameLen {
			u.name = append(u.name, r)
		}
	}
}

func (u *ui) choose(item int) {
	u.menu = item
	u.message = ""
	switch menuItems[item] {
	case "Play":
		u.field = 0
		u.mode = modeSetup
	case "Rules":
		u.mode = modeRules
	case "Record":
		r, err := u.ledger.Get(u.ctx, u.player)
		if err != nil {
			u.message = err.Error()
		}
		u.record = r
		u.mode = modeRecord
	case "Quit":
		u.exit()
	}
}

func (u *ui) keySetup(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		if u.field == startField {
			u.startGame()
			return
		}
		u.field = (u.field + 1) % (startField + 1)
	case tcell.KeyTab, tcell.KeyDown:
		u.field = (u.field + 1) % (startField + 1)
	case tcell.KeyBacktab, tcell.KeyUp:
		u.field = (u.field + startField) % (startField + 1)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if u.field < startField && u.setup[u.field] != "" {
			u.setup[u.field] = u.setup[u.field][:len(u.setup[u.field])-1]
		}
	case tcell.KeyEscape:
		u.toMenu()
	case tcell.KeyRune:
		r := ev.Rune()
		if u.field < startField && '0' <= r && r <= '9' && len(u.setup[u.field]) < maxFieldLen {
			u.setup[u.field] += string(r)
		}
	}
}

func (u *ui) startGame() {
	var n [len(setupLabels)]int
	for i, s := range u.setup {
		v, err := strconv.Atoi(s)
		if err != nil {
			u.message = setupLabels[i] + " must be a number"
			u.field = i
			return
		}
		n[i] = v
	}
	params := mines.GameParams{Rows: n[0], Cols: n[1], MineCount: n[2]}
	if err := params.Validate(); err != nil {
		u.message = err.Error()
		return
	}

	s, err := u.newSession(u.player, params)
	if err != nil {
		u.message = err.Error()
		return
	}
	u.sess = s
	p := s.Params()
	u.sel = mines.Pos{Row: p.Rows / 2, Col: p.Cols / 2}
	u.message = ""
	u.mode = modeStart
}

func (u *ui) chooseStart(p mines.Pos) {
	_, err := u.sess.ChooseStart(u.ctx, p)
	u.afterIntent(err)
}

func (u *ui) afterIntent(err error) {
	if err != nil {
		u.message = err.Error()
		if !errors.Is(err, session.ErrNotSaved) {
			return
		}
	}
	switch state := u.sess.State(); {
	case state.Terminal():
		u.mode = modeResult
	case state == mines.InProgress:
		u.mode = modePlay
	}
}

func (u *ui) click(x, y int) {
	switch u.mode {
	case modeMenu:
		for i := range menuItems {
			if bx, by := u.menuButton(i); y == by && bx <= x && x < bx+buttonWidth {
				u.choose(i)
				return
			}
		}
	case modeSetup:
		for i := range startField + 1 {
			if bx, by := u.setupButton(i); y == by && bx <= x && x < bx+buttonWidth {
				u.field = i
				if i == startField {
					u.startGame()
				}
				return
			}
		}
	case modeStart:
		if p, ok := u.cellAt(x, y); ok {
			u.sel = p
			u.chooseStart(p)
		}
	case modeResult:
		u.toMenu()
	}
}

func (u *ui) menuButton(i int) (x, y int) {
	w, _ := u.screen.Size()
	return (w - buttonWidth) / 2, 6 + 2*i
}

func (u *ui) setupButton(i int) (x, y int) {
	w, _ := u.screen.Size()
	return (w - buttonWidth) / 2, 5 + 2*i
}

// viewport returns the first board row and col on screen and how many of
// each fit, keeping the cursor visible on boards larger than the terminal.
func (u *ui) viewport() (top, left, rows, cols int) {
	w, h := u.screen.Size()
	p := u.sess.Params()
	cursor := u.cursor()

	rows = max(1, min(p.Rows, h-boardY-boardFooter))
	cols = max(1, min(p.Cols, (w-boardX)/3))
	top = clamp(cursor.Row-rows/2, 0, p.Rows-rows)
	left = clamp(cursor.Col-cols/2, 0, p.Cols-cols)
	return top, left, rows, cols
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func (u *ui) cursor() mines.Pos {
	if u.mode == modeStart {
		return u.sel
	}
	return u.sess.Snapshot().Cursor
}

func (u *ui) cellAt(x, y int) (mines.Pos, bool) {
	if x < boardX || y < boardY {
		return mines.Pos{}, false
	}
	top, left, rows, cols := u.viewport()
	vr, vc := y-boardY, (x-boardX)/3
	if vr >= rows || vc >= cols {
		return mines.Pos{}, false
	}
	return mines.Pos{Row: top + vr, Col: left + vc}, true
}

func (u *ui) screenPos(p mines.Pos) (x, y int) {
	top, left, _, _ := u.viewport()
	return boardX + (p.Col-left)*3 + 1, boardY + p.Row - top
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) int {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	return x
}

func drawCentered(s tcell.Screen, y int, style tcell.Style, text string) {
	w, _ := s.Size()
	drawText(s, (w-runewidth.StringWidth(text))/2, y, style, text)
}

func drawButton(s tcell.Screen, x, y int, style tcell.Style, label string) {
	label = runewidth.FillRight(runewidth.Truncate(label, buttonWidth-2, ""), buttonWidth-2)
	drawText(s, x, y, style, " "+label+" ")
}

func (u *ui) draw() {
	s := u.screen
	s.Clear()
	s.HideCursor()
	_, h := s.Size()

	switch u.mode {
	case modeName:
		drawCentered(s, 2, styleTitle, "Minesweeper")
		drawCentered(s, 5, styleDefault, "Enter your name:")
		name := string(u.name)
		w, _ := s.Size()
		x := (w - runewidth.StringWidth(name)) / 2
		end := drawText(s, x, 7, styleName, name)
		s.ShowCursor(end, 7)
		drawCentered(s, 9, styleHint, "Press Enter to continue")
	case modeMenu:
		drawCentered(s, 2, styleTitle, "Minesweeper")
		drawCentered(s, 3, styleHint, "Player: "+u.player)
		for i, item := range menuItems {
			style := styleButton
			if i == u.menu {
				style = styleActive
			}
			x, y := u.menuButton(i)
			drawButton(s, x, y, style, item)
		}
	case modeRules:
		drawCentered(s, 2, styleTitle, "Rules")
		for i, line := range rules {
			drawText(s, 6, 5+2*i, styleDefault, "* "+line)
		}
		drawText(s, 6, 6+2*len(rules), styleHint, "Press Esc to return")
	case modeRecord:
		drawCentered(s, 2, styleTitle, u.player+"'s Record")
		drawText(s, 6, 5, styleDefault, fmt.Sprintf("Total: %d", u.record.Total))
		drawText(s, 6, 7, styleWin, fmt.Sprintf("Win: %d", u.record.Wins))
		drawText(s, 6, 9, styleLose, fmt.Sprintf("Lose: %d", u.record.Losses))
		drawText(s, 6, 11, styleDefault, fmt.Sprintf("Win rate: %.0f%%", 100*u.record.WinRate()))
		drawText(s, 6, 13, styleHint, "Press Esc to return")
	case modeSetup:
		drawCentered(s, 2, styleTitle, "Game Setup")
		for i := range startField + 1 {
			label := "Start"
			style := styleWin.Reverse(true)
			if i < startField {
				label = setupLabels[i] + ": " + u.setup[i]
				style = styleButton
			}
			if i == u.field {
				style = styleActive
			}
			x, y := u.setupButton(i)
			drawButton(s, x, y, style, label)
		}
		drawCentered(s, 5+2*(startField+1), styleHint, "Enter: next field  Esc: return")
	case modeStart, modePlay, modeResult:
		u.drawBoard()
		u.drawStatus(h - boardFooter + 1)
	}

	if u.message != "" {
		drawCentered(s, h-1, styleError, u.message)
	}
	s.Show()
}

func (u *ui) drawStatus(y int) {
	snap := u.sess.Snapshot()
	p := u.sess.Params()
	switch u.mode {
	case modeStart:
		drawText(u.screen, boardX, y, styleDefault, "Choose a starting cell: arrows and Enter, or click")
	case modePlay:
		drawText(u.screen, boardX, y, styleDefault,
			fmt.Sprintf("Revealed %d/%d   Esc: leave", snap.RevealedSafe, p.SafeCells()))
	case modeResult:
		if snap.State == mines.Won {
			drawText(u.screen, boardX, y, styleWin, "YOU WIN")
		} else {
			drawText(u.screen, boardX, y, styleLose, "GAME OVER")
		}
		drawText(u.screen, boardX+12, y, styleHint, "press any key")
	}
}

func (u *ui) drawBoard() {
	snap := u.sess.Snapshot()
	top, left, rows, cols := u.viewport()
	cursor := u.cursor()

	for vr := range rows {
		for vc := range cols {
			p := mines.Pos{Row: top + vr, Col: left + vc}
			glyph, style := cellGlyph(snap, p)
			x, y := u.screenPos(p)
			if p == cursor {
				u.screen.SetContent(x-1, y, '[', nil, styleCursor)
				u.screen.SetContent(x+1, y, ']', nil, styleCursor)
			}
			u.screen.SetContent(x, y, glyph, nil, style)
		}
	}
}

func cellGlyph(snap session.Snapshot, p mines.Pos) (rune, tcell.Style) {
	if !snap.Mask.Revealed(p) {
		return '#', styleHidden
	}
	c := snap.Board.At(p)
	switch {
	case c.IsMine():
		return '*', styleMine
	case c == 0:
		return '.', styleEmpty
	}
	return rune('0' + c), styleNumber
}
