package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minewalk/internal/config"
	"github.com/vancomm/minewalk/internal/middleware"
	"github.com/vancomm/minewalk/internal/mines"
	"github.com/vancomm/minewalk/internal/session"
)

type GameHandler struct {
	logger   *logrus.Logger
	hub      *session.Hub
	jwt      *config.JWT
	ws       *config.WebSocket
	defaults mines.GameParams
}

func NewGameHandler(
	logger *logrus.Logger,
	hub *session.Hub,
	jwt *config.JWT,
	ws *config.WebSocket,
	defaults config.Game,
) *GameHandler {
	handler := &GameHandler{
		logger: logger,
		hub:    hub,
		jwt:    jwt,
		ws:     ws,
		defaults: mines.GameParams{
			Rows:      defaults.Rows,
			Cols:      defaults.Cols,
			MineCount: defaults.Mines,
		},
	}

	return handler
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateSessionDTO(r.URL.Query(), g.defaults)
	if err != nil {
		sendStatusJSONOrLog(w, g.logger, http.StatusBadRequest, wrapError(err))
		return
	}

	s, err := g.hub.Create(dto.Player, dto.Params())
	if err != nil {
		sendErrorOrLog(w, g.logger, err)
		return
	}

	token, err := g.jwt.Sign(s.ID.String(), s.Player)
	if err != nil {
		g.hub.Remove(s.ID)
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.WithError(err).Error("unable to sign session token")
		return
	}

	g.logger.WithFields(logrus.Fields{
		"session": s.ID.String(),
		"player":  s.Player,
		"params":  s.Params().String(),
	}).Info("session created")

	resp := NewSessionDTO(s)
	resp.Token = token
	sendStatusJSONOrLog(w, g.logger, http.StatusCreated, resp)
}

// lookup resolves the path session and checks that the request's token was
// issued for it.
func (g GameHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		sendStatusJSONOrLog(w, g.logger, http.StatusBadRequest, wrapError(err))
		return nil, false
	}

	claims, ok := middleware.SessionClaims(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return nil, false
	}
	if claims.SessionID != id.String() {
		w.WriteHeader(http.StatusForbidden)
		return nil, false
	}

	s, ok := g.hub.Get(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return nil, false
	}
	return s, true
}

// respond reports the session after an intent. A failed save still returns
// the new state, with a warning.
func (g GameHandler) respond(w http.ResponseWriter, s *session.Session, revealed int, err error) {
	if err != nil && !errors.Is(err, session.ErrNotSaved) {
		sendErrorOrLog(w, g.logger, err)
		return
	}
	resp := NewSessionDTO(s)
	resp.Revealed = revealed
	if err != nil {
		resp.Warning = err.Error()
	}
	sendJSONOrLog(w, g.logger, resp)
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, ok := g.lookup(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.logger, NewSessionDTO(s))
}

func (g GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	s, ok := g.lookup(w, r)
	if !ok {
		return
	}

	pos, err := ParsePositionDTO(r.URL.Query())
	if err != nil {
		sendStatusJSONOrLog(w, g.logger, http.StatusBadRequest, wrapError(err))
		return
	}

	// Positions outside the grid are ignored, the game stays awaiting start.
	n, err := s.ChooseStart(r.Context(), mines.Pos{Row: pos.Row, Col: pos.Col})
	g.respond(w, s, n, err)
}

func (g GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	s, ok := g.lookup(w, r)
	if !ok {
		return
	}

	dir, err := ParseMoveDTO(r.URL.Query())
	if err != nil {
		sendStatusJSONOrLog(w, g.logger, http.StatusBadRequest, wrapError(err))
		return
	}

	n, err := s.Move(r.Context(), dir)
	g.respond(w, s, n, err)
}

func (g GameHandler) Quit(w http.ResponseWriter, r *http.Request) {
	s, ok := g.lookup(w, r)
	if !ok {
		return
	}
	g.hub.Remove(s.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (g GameHandler) Record(w http.ResponseWriter, r *http.Request) {
	player := strings.TrimSpace(r.PathValue("name"))
	if player == "" {
		sendStatusJSONOrLog(w, g.logger, http.StatusBadRequest, wrapError(session.ErrEmptyPlayer))
		return
	}

	rec, err := g.hub.Ledger().Get(r.Context(), player)
	if err != nil {
		sendErrorOrLog(w, g.logger, err)
		return
	}
	sendJSONOrLog(w, g.logger, NewRecordDTO(player, rec))
}
