package session

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minewalk/internal/mines"
	"github.com/vancomm/minewalk/internal/records"
)

var smallGame = mines.GameParams{Rows: 4, Cols: 4, MineCount: 3}

func newHub() (*Hub, *memStore) {
	store := newMemStore()
	return NewHub(records.NewLedger(store), rand.New(rand.NewPCG(3, 4))), store
}

func TestHubOneSessionPerPlayer(t *testing.T) {
	h, store := newHub()

	first, err := h.Create("alice", smallGame)
	require.NoError(t, err)
	second, err := h.Create("alice", smallGame)
	require.NoError(t, err)
	_, err = h.Create("bob", smallGame)
	require.NoError(t, err)

	assert.Equal(t, 2, h.Len())
	_, ok := h.Get(first.ID)
	assert.False(t, ok)
	got, ok := h.Get(second.ID)
	require.True(t, ok)
	assert.Same(t, second, got)

	_, err = first.Move(context.Background(), mines.Up)
	assert.ErrorIs(t, err, ErrQuit)
	assert.Equal(t, 0, store.saves)
}

func TestHubRejectsInvalid(t *testing.T) {
	h, _ := newHub()
	_, err := h.Create("alice", mines.GameParams{Rows: 2, Cols: 2, MineCount: 4})
	assert.ErrorIs(t, err, mines.ErrInvalidConfiguration)
	_, err = h.Create("", smallGame)
	assert.ErrorIs(t, err, ErrEmptyPlayer)
	assert.Equal(t, 0, h.Len())
}

func TestHubRemove(t *testing.T) {
	h, _ := newHub()
	s, err := h.Create("alice", smallGame)
	require.NoError(t, err)

	assert.True(t, h.Remove(s.ID))
	assert.False(t, h.Remove(s.ID))
	assert.False(t, h.Remove(uuid.New()))
	assert.Equal(t, 0, h.Len())

	// the player can start again
	_, err = h.Create("alice", smallGame)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Len())
}

func TestHubConcurrentCreate(t *testing.T) {
	h, _ := newHub()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.Create("alice", smallGame)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, h.Len())
}
