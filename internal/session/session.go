package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minewalk/internal/mines"
	"github.com/vancomm/minewalk/internal/records"
)

var Log = logrus.New()

var (
	ErrEmptyPlayer = errors.New("player name must not be empty")
	ErrQuit        = errors.New("session was quit")
	// ErrNotSaved wraps a persistence failure after the outcome was counted
	// in memory.
	ErrNotSaved = errors.New("outcome counted but not saved")
)

// Snapshot is the read-only view handed to renderers.
type Snapshot struct {
	Board        *mines.Board
	Mask         *mines.Mask
	Cursor       mines.Pos
	State        mines.State
	RevealedSafe int
}

// Session is one player's game. Intents are processed one at a time; the
// outcome is counted in the player's record exactly once, on the transition
// into a terminal state.
type Session struct {
	ID        uuid.UUID
	Player    string
	CreatedAt time.Time

	mu       sync.Mutex
	game     *mines.Game
	ledger   *records.Ledger
	recorded bool
	quit     bool
}

func normalizePlayer(player string) (string, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return "", ErrEmptyPlayer
	}
	return player, nil
}

// New validates params, generates a board and returns a session awaiting the
// starting cell. Invalid params never reach the ledger.
func New(
	ledger *records.Ledger, player string, params mines.GameParams, r *rand.Rand,
) (*Session, error) {
	player, err := normalizePlayer(player)
	if err != nil {
		return nil, err
	}
	board, err := mines.Generate(params, r)
	if err != nil {
		return nil, err
	}
	return FromBoard(ledger, player, board)
}

// FromBoard starts a session on a prepared board.
func FromBoard(ledger *records.Ledger, player string, board *mines.Board) (*Session, error) {
	player, err := normalizePlayer(player)
	if err != nil {
		return nil, err
	}
	s := &Session{
		ID:        uuid.New(),
		Player:    player,
		CreatedAt: time.Now().UTC(),
		game:      mines.NewGame(board),
		ledger:    ledger,
	}
	Log.WithFields(logrus.Fields{
		"session": s.ID.String(),
		"player":  player,
		"params":  board.Params().String(),
	}).Debug("session created")
	return s, nil
}

func (s *Session) Params() mines.GameParams {
	return s.game.Board().Params()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Board:        s.game.Board(),
		Mask:         s.game.Mask(),
		Cursor:       s.game.Cursor(),
		State:        s.game.State(),
		RevealedSafe: s.game.RevealedSafe(),
	}
}

func (s *Session) State() mines.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.State()
}

func (s *Session) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.String()
}

func (s *Session) ChooseStart(ctx context.Context, p mines.Pos) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quit {
		return 0, ErrQuit
	}
	n, err := s.game.ChooseStart(p)
	if err != nil {
		return 0, err
	}
	return n, s.settle(ctx)
}

func (s *Session) Move(ctx context.Context, d mines.Direction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quit {
		return 0, ErrQuit
	}
	n, err := s.game.Move(d)
	if err != nil {
		return 0, err
	}
	return n, s.settle(ctx)
}

// Quit discards the session. An unfinished game is not counted.
func (s *Session) Quit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.quit {
		Log.WithFields(logrus.Fields{
			"session": s.ID.String(),
			"player":  s.Player,
			"state":   s.game.State().String(),
		}).Debug("session quit")
	}
	s.quit = true
}

// Record returns the player's current record.
func (s *Session) Record(ctx context.Context) (records.Record, error) {
	return s.ledger.Get(ctx, s.Player)
}

// settle must be called with s.mu held.
func (s *Session) settle(ctx context.Context) error {
	if !s.game.Terminal() || s.recorded {
		return nil
	}
	s.recorded = true
	state := s.game.State()
	r, err := s.ledger.Record(ctx, s.Player, state)
	fields := logrus.Fields{
		"session": s.ID.String(),
		"player":  s.Player,
		"state":   state.String(),
		"total":   r.Total,
	}
	if err != nil {
		Log.WithFields(fields).WithError(err).Error("unable to save outcome")
		return fmt.Errorf("%w: %w", ErrNotSaved, err)
	}
	Log.WithFields(fields).Info("game finished")
	return nil
}
