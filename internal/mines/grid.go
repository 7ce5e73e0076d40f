package mines

import (
	"strings"
)

// Mask records which cells have been revealed. A revealed cell never becomes
// hidden again.
type Mask struct {
	rows, cols int
	cells      []bool
	count      int
}

func NewMask(rows, cols int) *Mask {
	return &Mask{rows: rows, cols: cols, cells: make([]bool, rows*cols)}
}

func (m *Mask) Revealed(p Pos) bool {
	if p.Row < 0 || p.Row >= m.rows || p.Col < 0 || p.Col >= m.cols {
		return false
	}
	return m.cells[p.Row*m.cols+p.Col]
}

// Count returns the number of revealed cells.
func (m *Mask) Count() int {
	return m.count
}

func (m *Mask) RevealAll() {
	for i := range m.cells {
		m.cells[i] = true
	}
	m.count = len(m.cells)
}

func (m *Mask) Clone() *Mask {
	c := *m
	c.cells = append([]bool(nil), m.cells...)
	return &c
}

// set reveals cell i and reports whether it was hidden before.
func (m *Mask) set(i int) bool {
	if m.cells[i] {
		return false
	}
	m.cells[i] = true
	m.count++
	return true
}

const hiddenCell = "#"

func writeCell(b *strings.Builder, s string, cursor bool) {
	if cursor {
		b.WriteString("[" + s + "]")
	} else {
		b.WriteString(" " + s + " ")
	}
}

// String renders the whole layout, one row per line.
func (b *Board) String() string {
	var sb strings.Builder
	for r := range b.rows {
		for c := range b.cols {
			writeCell(&sb, b.At(Pos{r, c}).String(), false)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// String renders what the player sees: hidden cells as '#', the cursor in
// brackets once the game has started.
func (g *Game) String() string {
	var sb strings.Builder
	for r := range g.board.rows {
		for c := range g.board.cols {
			p := Pos{r, c}
			s := hiddenCell
			if g.mask.Revealed(p) {
				s = g.board.At(p).String()
			}
			writeCell(&sb, s, g.state != AwaitingStart && p == g.cursor)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
