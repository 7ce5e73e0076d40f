package mines

import (
	"fmt"
	"strings"
)

// MaxCells bounds the area of a grid so that rows*cols cannot overflow and a
// single flood fill stays cheap.
const MaxCells = 1 << 20

type GameParams struct {
	Rows, Cols, MineCount int
}

func (p GameParams) Unpack() (rows int, cols int, mc int) {
	return p.Rows, p.Cols, p.MineCount
}

func (p GameParams) String() string {
	return fmt.Sprintf("%dx%d(%d)", p.Rows, p.Cols, p.MineCount)
}

// Seed encodes params as "rows:cols:mines".
func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Rows, p.Cols, p.MineCount)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Rows, &p.Cols, &p.MineCount)
	if n != 3 || err != nil {
		return nil, fmt.Errorf("%w: seed %q is not rows:cols:mines",
			ErrInvalidConfiguration, seed)
	}
	return p, p.Validate()
}

// Validate checks 0 < mines < rows*cols for positive dimensions.
func (p GameParams) Validate() error {
	switch {
	case p.Rows <= 0 || p.Cols <= 0:
		return &ConfigError{p, "rows and cols must be positive"}
	case p.Rows > MaxCells/p.Cols:
		return &ConfigError{p, fmt.Sprintf("grid is larger than %d cells", MaxCells)}
	case p.MineCount <= 0:
		return &ConfigError{p, "at least one mine is required"}
	case p.MineCount >= p.Rows*p.Cols:
		return &ConfigError{p, "at least one cell must be free of mines"}
	}
	return nil
}

func (p GameParams) SafeCells() int {
	return p.Rows*p.Cols - p.MineCount
}

func (p GameParams) PointInBounds(pos Pos) bool {
	return 0 <= pos.Row && pos.Row < p.Rows && 0 <= pos.Col && pos.Col < p.Cols
}
