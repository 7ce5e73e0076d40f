package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bruteCount recounts the mines around p without using Board.Neighbors.
func bruteCount(b *Board, p Pos) int {
	n := 0
	for r := p.Row - 1; r <= p.Row+1; r++ {
		for c := p.Col - 1; c <= p.Col+1; c++ {
			if r < 0 || r >= b.Rows() || c < 0 || c >= b.Cols() {
				continue
			}
			if (r != p.Row || c != p.Col) && b.At(Pos{r, c}) == Mine {
				n++
			}
		}
	}
	return n
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params GameParams
	}{
		{
			name:   "1x2(1)",
			params: GameParams{Rows: 1, Cols: 2, MineCount: 1},
		},
		{
			name:   "9x9(10)",
			params: GameParams{Rows: 9, Cols: 9, MineCount: 10},
		},
		{
			name:   "9x9(80)",
			params: GameParams{Rows: 9, Cols: 9, MineCount: 80},
		},
		{
			name:   "16x16(40)",
			params: GameParams{Rows: 16, Cols: 16, MineCount: 40},
		},
		{
			name:   "16x30(99)",
			params: GameParams{Rows: 16, Cols: 30, MineCount: 99},
		},
		{
			name:   "1x50(7)",
			params: GameParams{Rows: 1, Cols: 50, MineCount: 7},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			r := rand.New(rand.NewPCG(1, 2))
			for range 20 {
				b, err := Generate(test.params, r)
				require.NoError(t, err)
				assert.Equal(t, test.params, b.Params())

				mines := 0
				for row := range b.Rows() {
					for col := range b.Cols() {
						p := Pos{row, col}
						if b.At(p).IsMine() {
							mines++
							continue
						}
						assert.Equal(t, bruteCount(b, p), int(b.At(p)), "count at %s", p)
					}
				}
				assert.Equal(t, test.params.MineCount, mines)
			}
		})
	}
}

func TestGenerateInvalid(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	_, err := Generate(GameParams{Rows: 2, Cols: 2, MineCount: 4}, r)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestGenerateDeterministic(t *testing.T) {
	params := GameParams{Rows: 9, Cols: 9, MineCount: 10}
	a, err := Generate(params, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	b, err := Generate(params, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}

func TestNewBoard(t *testing.T) {
	b, err := NewBoard(1, 2, []Pos{{0, 1}})
	require.NoError(t, err)
	assert.Equal(t, Cell(1), b.At(Pos{0, 0}))
	assert.Equal(t, Mine, b.At(Pos{0, 1}))
	assert.Equal(t, " 1  * \n", b.String())

	_, err = NewBoard(2, 2, []Pos{{0, 0}, {0, 0}})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewBoard(2, 2, []Pos{{2, 0}})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewBoard(2, 2, nil)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestNeighbors(t *testing.T) {
	b, err := NewBoard(3, 3, []Pos{{1, 1}})
	require.NoError(t, err)

	count := func(p Pos) (n int) {
		for range b.Neighbors(p) {
			n++
		}
		return
	}
	assert.Equal(t, 3, count(Pos{0, 0}))
	assert.Equal(t, 5, count(Pos{0, 1}))
	assert.Equal(t, 8, count(Pos{1, 1}))
	for r := range 3 {
		for c := range 3 {
			if r != 1 || c != 1 {
				assert.Equal(t, Cell(1), b.At(Pos{r, c}))
			}
		}
	}
}
