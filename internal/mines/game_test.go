package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, rows, cols int, mines ...Pos) *Game {
	t.Helper()
	b, err := NewBoard(rows, cols, mines)
	require.NoError(t, err)
	return NewGame(b)
}

func assertAllRevealed(t *testing.T, g *Game) {
	t.Helper()
	for r := range g.Board().Rows() {
		for c := range g.Board().Cols() {
			assert.True(t, g.Revealed(Pos{r, c}), "(%d,%d)", r, c)
		}
	}
}

func TestWinOnStart(t *testing.T) {
	g := newTestGame(t, 1, 2, Pos{0, 1})
	assert.Equal(t, Cell(1), g.Board().At(Pos{0, 0}))
	assert.Equal(t, Mine, g.Board().At(Pos{0, 1}))

	n, err := g.ChooseStart(Pos{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, Won, g.State())
	assert.Equal(t, 1, g.RevealedSafe())
	assertAllRevealed(t, g)
}

func TestAbandonAtStart(t *testing.T) {
	g := newTestGame(t, 1, 2, Pos{0, 1})

	n, err := g.ChooseStart(Pos{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, AbandonedAtStart, g.State())
	assert.True(t, g.State().Loss())
	assert.Equal(t, 0, g.RevealedSafe())
	assertAllRevealed(t, g)

	_, err = g.ChooseStart(Pos{0, 0})
	assert.ErrorIs(t, err, ErrGameOver)
	_, err = g.Move(Left)
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestLoseOnMove(t *testing.T) {
	g := newTestGame(t, 1, 4, Pos{0, 1})

	n, err := g.ChooseStart(Pos{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, InProgress, g.State())
	assert.False(t, g.Revealed(Pos{0, 1}))

	n, err = g.Move(Right)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, Lost, g.State())
	assert.Equal(t, Pos{0, 1}, g.Cursor())
	assertAllRevealed(t, g)

	_, err = g.Move(Right)
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestWinOnMove(t *testing.T) {
	g := newTestGame(t, 2, 2, Pos{1, 1})

	_, err := g.ChooseStart(Pos{0, 0})
	require.NoError(t, err)

	n, err := g.Move(Right)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, InProgress, g.State())

	n, err = g.Move(Left)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "walking onto a revealed cell reveals nothing")

	n, err = g.Move(Down)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, Won, g.State())
	assert.Equal(t, g.Board().Params().SafeCells(), g.RevealedSafe())
	assertAllRevealed(t, g)
}

func TestMoveAtEdge(t *testing.T) {
	g := newTestGame(t, 3, 3, Pos{2, 0}, Pos{2, 2})
	_, err := g.ChooseStart(Pos{0, 1})
	require.NoError(t, err)
	require.Equal(t, InProgress, g.State())
	before := g.Mask().Count()

	n, err := g.Move(Up)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, Pos{0, 1}, g.Cursor())
	assert.Equal(t, before, g.Mask().Count())

	g = newTestGame(t, 1, 3, Pos{0, 1})
	_, err = g.ChooseStart(Pos{0, 0})
	require.NoError(t, err)
	for _, d := range []Direction{Up, Down, Left} {
		n, err := g.Move(d)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.Equal(t, Pos{0, 0}, g.Cursor())
	}
	assert.Equal(t, InProgress, g.State())
}

func TestIntentsBeforeStart(t *testing.T) {
	g := newTestGame(t, 1, 4, Pos{0, 1})

	_, err := g.Move(Down)
	assert.ErrorIs(t, err, ErrNotStarted)

	n, err := g.ChooseStart(Pos{5, 5})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, AwaitingStart, g.State())
	assert.Equal(t, 0, g.Mask().Count())

	n, err = g.ChooseStart(Pos{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Equal(t, InProgress, g.State())

	_, err = g.ChooseStart(Pos{0, 3})
	assert.ErrorIs(t, err, ErrAlreadyStarted)
	assert.Equal(t, Pos{0, 0}, g.Cursor())
	assert.Equal(t, 1, g.RevealedSafe())
}

func TestGameString(t *testing.T) {
	g := newTestGame(t, 2, 3, Pos{0, 2})
	assert.Equal(t, " #  #  # \n #  #  # \n", g.String())

	_, err := g.ChooseStart(Pos{1, 0})
	require.NoError(t, err)
	assert.Equal(t, " .  1  # \n[.] 1  # \n", g.String())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting_start", AwaitingStart.String())
	assert.Equal(t, "abandoned_at_start", AbandonedAtStart.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.False(t, InProgress.Terminal())
	assert.True(t, Won.Terminal())
	assert.False(t, Won.Loss())
}

func TestParseDirection(t *testing.T) {
	for s, want := range map[string]Direction{
		"up": Up, "D": Down, " left ": Left, "right": Right,
	} {
		d, err := ParseDirection(s)
		require.NoError(t, err)
		assert.Equal(t, want, d)
	}
	_, err := ParseDirection("sideways")
	assert.Error(t, err)
}

func TestRandomPlay(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	params := GameParams{Rows: 8, Cols: 8, MineCount: 6}
	for range 200 {
		b, err := Generate(params, r)
		require.NoError(t, err)
		g := NewGame(b)
		_, err = g.ChooseStart(Pos{r.IntN(8), r.IntN(8)})
		require.NoError(t, err)

		prev := g.Mask()
		for !g.Terminal() {
			_, err := g.Move(Direction(r.IntN(4)))
			require.NoError(t, err)
			cur := g.Mask()
			for row := range 8 {
				for col := range 8 {
					if prev.Revealed(Pos{row, col}) {
						require.True(t, cur.Revealed(Pos{row, col}))
					}
				}
			}
			require.LessOrEqual(t, g.RevealedSafe(), params.SafeCells())
			prev = cur
		}

		assert.Equal(t, b.Rows()*b.Cols(), g.Mask().Count())
		switch g.State() {
		case Won:
			assert.Equal(t, params.SafeCells(), g.RevealedSafe())
		case Lost, AbandonedAtStart:
			assert.True(t, b.At(g.Cursor()).IsMine())
		default:
			t.Fatalf("unexpected terminal state %s", g.State())
		}
	}
}
