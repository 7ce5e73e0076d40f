package session

import (
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"github.com/vancomm/minewalk/internal/mines"
	"github.com/vancomm/minewalk/internal/records"
)

// Hub holds at most one session per player. Starting a new game discards the
// player's previous session.
type Hub struct {
	mu       sync.Mutex
	rnd      *rand.Rand
	ledger   *records.Ledger
	byID     map[uuid.UUID]*Session
	byPlayer map[string]uuid.UUID
}

func NewHub(ledger *records.Ledger, rnd *rand.Rand) *Hub {
	return &Hub{
		rnd:      rnd,
		ledger:   ledger,
		byID:     make(map[uuid.UUID]*Session),
		byPlayer: make(map[string]uuid.UUID),
	}
}

func (h *Hub) Ledger() *records.Ledger {
	return h.ledger
}

func (h *Hub) Create(player string, params mines.GameParams) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, err := New(h.ledger, player, params, h.rnd)
	if err != nil {
		return nil, err
	}
	if prev, ok := h.byPlayer[s.Player]; ok {
		h.byID[prev].Quit()
		delete(h.byID, prev)
	}
	h.byID[s.ID] = s
	h.byPlayer[s.Player] = s.ID
	return s, nil
}

func (h *Hub) Get(id uuid.UUID) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.byID[id]
	return s, ok
}

// Remove quits and forgets the session.
func (h *Hub) Remove(id uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.byID[id]
	if !ok {
		return false
	}
	s.Quit()
	delete(h.byID, id)
	if h.byPlayer[s.Player] == id {
		delete(h.byPlayer, s.Player)
	}
	return true
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.byID)
}
