package mines

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Cell is either [Mine] or the number of mines among the cell's neighbours.
type Cell int8

const Mine Cell = -1

func (c Cell) IsMine() bool {
	return c == Mine
}

func (c Cell) String() string {
	switch {
	case c == Mine:
		return "*"
	case c == 0:
		return "."
	case 0 < c && c <= 8:
		return strconv.Itoa(int(c))
	default:
		return "!"
	}
}

type Pos struct {
	Row, Col int
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

type Direction int8

const (
	Up Direction = iota
	Down
	Left
	Right
)

var directionNames = [...]string{"up", "down", "left", "right"}

func (d Direction) String() string {
	if 0 <= d && int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "direction(" + strconv.Itoa(int(d)) + ")"
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Step returns the position one cell away in direction d. The result may be
// out of bounds.
func (p Pos) Step(d Direction) Pos {
	switch d {
	case Up:
		p.Row--
	case Down:
		p.Row++
	case Left:
		p.Col--
	case Right:
		p.Col++
	}
	return p
}

// Board is the immutable mine layout of one game.
type Board struct {
	rows, cols int
	mineCount  int
	cells      []Cell
}

// NewBoard places mines at the given positions and computes adjacency counts.
func NewBoard(rows, cols int, mines []Pos) (*Board, error) {
	params := GameParams{Rows: rows, Cols: cols, MineCount: len(mines)}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	b := &Board{
		rows:      rows,
		cols:      cols,
		mineCount: len(mines),
		cells:     make([]Cell, rows*cols),
	}
	for _, p := range mines {
		if !b.InBounds(p) {
			return nil, &ConfigError{params, fmt.Sprintf("mine %s is outside the grid", p)}
		}
		i := b.index(p)
		if b.cells[i] == Mine {
			return nil, &ConfigError{params, fmt.Sprintf("duplicate mine at %s", p)}
		}
		b.cells[i] = Mine
	}
	b.countNeighbors()
	return b, nil
}

func (b *Board) countNeighbors() {
	for i, c := range b.cells {
		if c == Mine {
			continue
		}
		v := 0
		for q := range b.Neighbors(b.pos(i)) {
			if b.cells[b.index(q)] == Mine {
				v++
			}
		}
		b.cells[i] = Cell(v)
	}
}

func (b *Board) Rows() int      { return b.rows }
func (b *Board) Cols() int      { return b.cols }
func (b *Board) MineCount() int { return b.mineCount }

func (b *Board) Params() GameParams {
	return GameParams{Rows: b.rows, Cols: b.cols, MineCount: b.mineCount}
}

func (b *Board) InBounds(p Pos) bool {
	return 0 <= p.Row && p.Row < b.rows && 0 <= p.Col && p.Col < b.cols
}

// At returns the cell at p. p must be in bounds.
func (b *Board) At(p Pos) Cell {
	return b.cells[b.index(p)]
}

// Neighbors yields the up to 8 in-bounds neighbours of p.
func (b *Board) Neighbors(p Pos) iter.Seq[Pos] {
	return func(yield func(Pos) bool) {
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				q := Pos{p.Row + dr, p.Col + dc}
				if (dr != 0 || dc != 0) && b.InBounds(q) {
					if !yield(q) {
						return
					}
				}
			}
		}
	}
}

func (b *Board) index(p Pos) int {
	return p.Row*b.cols + p.Col
}

func (b *Board) pos(i int) Pos {
	return Pos{i / b.cols, i % b.cols}
}
