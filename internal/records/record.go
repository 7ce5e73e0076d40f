package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/vancomm/minewalk/internal/mines"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrNotTerminal = errors.New("game has not ended")
)

// Record holds the cumulative results of one player. Every finished game adds
// one to Total and one to exactly one of Wins or Losses.
type Record struct {
	Total  int `json:"total"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Apply counts a finished game. [mines.AbandonedAtStart] is a loss.
func (r *Record) Apply(s mines.State) error {
	if !s.Terminal() {
		return fmt.Errorf("%w: %s", ErrNotTerminal, s)
	}
	r.Total++
	if s == mines.Won {
		r.Wins++
	} else {
		r.Losses++
	}
	return nil
}

func (r Record) add(o Record) Record {
	return Record{
		Total:  r.Total + o.Total,
		Wins:   r.Wins + o.Wins,
		Losses: r.Losses + o.Losses,
	}
}

// WinRate is Wins/Total, or 0 before the first game.
func (r Record) WinRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Total)
}

func (r Record) Valid() bool {
	return r.Total >= 0 && r.Wins >= 0 && r.Losses >= 0 && r.Wins+r.Losses <= r.Total
}

// Store persists records keyed by player name. Load returns [ErrNotFound] for
// players it has never seen.
type Store interface {
	Load(ctx context.Context, player string) (Record, error)
	Save(ctx context.Context, player string, r Record) error
}
