package records

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minewalk/internal/mines"
)

var Log = logrus.New()

type entry struct {
	mu      sync.Mutex
	loaded  bool
	dirty   bool
	record  Record
	pending Record // outcomes applied before the stored record could be loaded
}

// Ledger keeps the in-memory records of every player seen by the process.
// A record is loaded from the store at most once and saved after every
// change. Updates for the same player are serialised.
type Ledger struct {
	store   Store
	mu      sync.Mutex
	entries map[string]*entry
}

func NewLedger(store Store) *Ledger {
	return &Ledger{
		store:   store,
		entries: make(map[string]*entry),
	}
}

func (l *Ledger) entry(player string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[player]
	if !ok {
		e = &entry{}
		l.entries[player] = e
	}
	return e
}

// load must be called with e.mu held.
func (l *Ledger) load(ctx context.Context, player string, e *entry) error {
	if e.loaded {
		return nil
	}
	r, err := l.store.Load(ctx, player)
	if errors.Is(err, ErrNotFound) {
		r = Record{}
	} else if err != nil {
		return fmt.Errorf("unable to load record of %q: %w", player, err)
	}
	if !r.Valid() {
		return fmt.Errorf("stored record of %q is inconsistent: %+v", player, r)
	}
	e.record = r.add(e.pending)
	e.dirty = e.pending != (Record{})
	e.pending = Record{}
	e.loaded = true
	return nil
}

// Get returns the record of player, zero if the store has none.
func (l *Ledger) Get(ctx context.Context, player string) (Record, error) {
	e := l.entry(player)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := l.load(ctx, player, e); err != nil {
		return e.record.add(e.pending), err
	}
	return e.record, nil
}

// Record applies a finished game to the player's record and saves it. When
// loading or saving fails the outcome stays counted in memory and is written
// by the next successful save.
func (l *Ledger) Record(ctx context.Context, player string, s mines.State) (Record, error) {
	e := l.entry(player)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := l.load(ctx, player, e); err != nil {
		if aerr := e.pending.Apply(s); aerr != nil {
			return Record{}, aerr
		}
		return e.pending, err
	}
	if err := e.record.Apply(s); err != nil {
		return e.record, err
	}
	e.dirty = true

	return e.record, l.save(ctx, player, e)
}

// Flush retries saving every record whose last save failed.
func (l *Ledger) Flush(ctx context.Context) error {
	l.mu.Lock()
	players := make([]string, 0, len(l.entries))
	for player := range l.entries {
		players = append(players, player)
	}
	l.mu.Unlock()

	var errs []error
	for _, player := range players {
		e := l.entry(player)
		e.mu.Lock()
		var err error
		if !e.loaded && e.pending != (Record{}) {
			err = l.load(ctx, player, e)
		}
		if err == nil && e.dirty {
			err = l.save(ctx, player, e)
		}
		e.mu.Unlock()
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// save must be called with e.mu held.
func (l *Ledger) save(ctx context.Context, player string, e *entry) error {
	if err := l.store.Save(ctx, player, e.record); err != nil {
		Log.WithFields(logrus.Fields{
			"player": player,
			"record": e.record,
		}).WithError(err).Warn("unable to save record")
		return fmt.Errorf("unable to save record of %q: %w", player, err)
	}
	e.dirty = false
	Log.WithFields(logrus.Fields{
		"player": player,
		"total":  e.record.Total,
		"wins":   e.record.Wins,
		"losses": e.record.Losses,
	}).Debug("saved record")
	return nil
}
