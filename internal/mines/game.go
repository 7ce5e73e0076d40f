package mines

import (
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type State int8

const (
	AwaitingStart State = iota
	InProgress
	Won
	Lost
	// AbandonedAtStart means the starting cell was a mine. It counts as a
	// loss.
	AbandonedAtStart
)

var stateNames = [...]string{
	AwaitingStart:    "awaiting_start",
	InProgress:       "in_progress",
	Won:              "won",
	Lost:             "lost",
	AbandonedAtStart: "abandoned_at_start",
}

func (s State) String() string {
	if 0 <= s && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

func (s State) Terminal() bool {
	return s == Won || s == Lost || s == AbandonedAtStart
}

func (s State) Loss() bool {
	return s == Lost || s == AbandonedAtStart
}

// Game is the state of a single play-through: the board, what has been
// revealed, where the player stands and how the game ended.
type Game struct {
	board        *Board
	mask         *Mask
	cursor       Pos
	state        State
	revealedSafe int
}

func NewGame(board *Board) *Game {
	return &Game{
		board: board,
		mask:  NewMask(board.rows, board.cols),
		state: AwaitingStart,
	}
}

func (g *Game) Board() *Board       { return g.board }
func (g *Game) State() State        { return g.state }
func (g *Game) Cursor() Pos         { return g.cursor }
func (g *Game) Terminal() bool      { return g.state.Terminal() }
func (g *Game) RevealedSafe() int   { return g.revealedSafe }
func (g *Game) Revealed(p Pos) bool { return g.mask.Revealed(p) }

// Mask returns a copy of the revealed mask.
func (g *Game) Mask() *Mask {
	return g.mask.Clone()
}

// ChooseStart picks the starting cell. Choosing a mine ends the game as
// [AbandonedAtStart] with nothing counted as revealed; a position outside the
// grid is ignored.
func (g *Game) ChooseStart(p Pos) (revealed int, err error) {
	switch {
	case g.state.Terminal():
		return 0, ErrGameOver
	case g.state != AwaitingStart:
		return 0, ErrAlreadyStarted
	}
	if !g.board.InBounds(p) {
		return 0, nil
	}

	g.cursor = p
	if g.board.At(p).IsMine() {
		g.finish(AbandonedAtStart)
		return 0, nil
	}

	revealed = Reveal(g.board, g.mask, p)
	g.revealedSafe += revealed
	g.state = InProgress
	g.checkWon()
	return revealed, nil
}

// Move walks the cursor one cell and reveals the cell it lands on. Moves off
// the grid leave the cursor where it is.
func (g *Game) Move(d Direction) (revealed int, err error) {
	switch {
	case g.state.Terminal():
		return 0, ErrGameOver
	case g.state == AwaitingStart:
		return 0, ErrNotStarted
	}

	next := g.cursor.Step(d)
	if !g.board.InBounds(next) {
		return 0, nil
	}
	g.cursor = next
	if g.mask.Revealed(next) {
		return 0, nil
	}

	if g.board.At(next).IsMine() {
		g.finish(Lost)
		return 0, nil
	}

	revealed = Reveal(g.board, g.mask, next)
	g.revealedSafe += revealed
	g.checkWon()
	return revealed, nil
}

func (g *Game) checkWon() {
	if g.revealedSafe == g.board.Params().SafeCells() {
		g.finish(Won)
	}
}

func (g *Game) finish(s State) {
	g.mask.RevealAll()
	g.state = s
	Log.WithFields(logrus.Fields{
		"params":   g.board.Params().String(),
		"state":    s.String(),
		"revealed": g.revealedSafe,
		"cursor":   g.cursor.String(),
	}).Debug("game over")
}
