package handlers

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minewalk/internal/mines"
	"github.com/vancomm/minewalk/internal/session"
)

var errQuitCommand = errors.New("quit")

func byPiece(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0,
	"s": 2,
	"m": 1,
	"q": 0,
}

func parseRowCol(twoStrings []string) (p mines.Pos, err error) {
	if p.Row, err = strconv.Atoi(twoStrings[0]); err != nil {
		return p, fmt.Errorf("row must be an int")
	}
	if p.Col, err = strconv.Atoi(twoStrings[1]); err != nil {
		return p, fmt.Errorf("col must be an int")
	}
	return p, nil
}

type commandResult struct {
	revealed int
	err      error
}

// executeCommand runs one line against the session. Errors from the game
// itself are returned in the result; the error return is for malformed
// commands.
func executeCommand(ctx context.Context, s *session.Session, c string) (commandResult, error) {
	parts := strings.Fields(c)
	if len(parts) == 0 {
		return commandResult{}, nil
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return commandResult{}, fmt.Errorf("unknown command %q", parts[0])
	}
	if nargs != len(parts)-1 {
		return commandResult{}, fmt.Errorf("%s takes %d arguments", parts[0], nargs)
	}

	switch parts[0] {
	case "s":
		p, err := parseRowCol(parts[1:])
		if err != nil {
			return commandResult{}, err
		}
		n, err := s.ChooseStart(ctx, p)
		return commandResult{n, err}, nil
	case "m":
		d, err := mines.ParseDirection(parts[1])
		if err != nil {
			return commandResult{}, err
		}
		n, err := s.Move(ctx, d)
		return commandResult{n, err}, nil
	case "q":
		return commandResult{}, errQuitCommand
	}
	return commandResult{}, nil
}

// ConnectWS plays a session over a websocket. Every text message holds one
// or more newline separated commands and gets exactly one reply: the session
// after the last command, or the first error.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	s, ok := g.lookup(w, r)
	if !ok {
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.WithError(err).Error("unable to upgrade")
		return
	}

	defer c.Close()

	log := g.logger.WithField("session", s.ID.String())
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("abnormal ws break")
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}
		text := strings.TrimSpace(string(message))
		log.Debugf("\t> %s", text)

		resp, quit := g.runCommands(r, s, text, log)
		if err := c.WriteJSON(resp); err != nil {
			log.WithError(err).Error("unable to write json")
			break
		}
		log.Debug("\t< <session data>")
		if quit {
			g.hub.Remove(s.ID)
			c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "quit"))
			break
		}
	}
}

func (g GameHandler) runCommands(
	r *http.Request, s *session.Session, text string, log *logrus.Entry,
) (resp any, quit bool) {
	var last commandResult
	for _, line := range byPiece(text, "\n") {
		res, err := executeCommand(r.Context(), s, line)
		if errors.Is(err, errQuitCommand) {
			quit = true
			break
		}
		if err != nil {
			log.WithError(err).Debug("rejected command")
			return wrapError(err), false
		}
		if res.err != nil && !errors.Is(res.err, session.ErrNotSaved) {
			return wrapError(res.err), false
		}
		last = res
		if s.State().Terminal() {
			break
		}
	}

	dto := NewSessionDTO(s)
	dto.Revealed = last.revealed
	if last.err != nil {
		dto.Warning = last.err.Error()
	}
	return dto, quit
}
