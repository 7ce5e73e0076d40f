package handlers

import (
	"strings"

	"github.com/gorilla/schema"

	"github.com/vancomm/minewalk/internal/mines"
	"github.com/vancomm/minewalk/internal/records"
	"github.com/vancomm/minewalk/internal/session"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type CreateSessionDTO struct {
	Player string `schema:"player,required"`
	Rows   int    `schema:"rows"`
	Cols   int    `schema:"cols"`
	Mines  int    `schema:"mines"`
	// Seed is "rows:cols:mines" and takes precedence over the three fields.
	Seed string `schema:"seed"`
}

// ParseCreateSessionDTO fills the fields missing from src with defaults.
func ParseCreateSessionDTO(src map[string][]string, defaults mines.GameParams) (CreateSessionDTO, error) {
	dto := CreateSessionDTO{
		Rows:  defaults.Rows,
		Cols:  defaults.Cols,
		Mines: defaults.MineCount,
	}
	if err := decoder.Decode(&dto, src); err != nil {
		return dto, err
	}
	if dto.Seed != "" {
		params, err := mines.ParseSeed(dto.Seed)
		if err != nil {
			return dto, err
		}
		dto.Rows, dto.Cols, dto.Mines = params.Unpack()
	}
	return dto, nil
}

func (dto CreateSessionDTO) Params() mines.GameParams {
	return mines.GameParams{Rows: dto.Rows, Cols: dto.Cols, MineCount: dto.Mines}
}

type PositionDTO struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

func ParsePositionDTO(src map[string][]string) (PositionDTO, error) {
	var dto PositionDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type MoveDTO struct {
	Dir string `schema:"dir,required"`
}

func ParseMoveDTO(src map[string][]string) (mines.Direction, error) {
	var dto MoveDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return 0, err
	}
	return mines.ParseDirection(dto.Dir)
}

type PosView struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// GameView is what a client may see of a game. Hidden cells are "#".
type GameView struct {
	Rows         int      `json:"rows"`
	Cols         int      `json:"cols"`
	Mines        int      `json:"mines"`
	Seed         string   `json:"seed"`
	State        string   `json:"state"`
	Cursor       *PosView `json:"cursor"`
	RevealedSafe int      `json:"revealed_safe"`
	Cells        []string `json:"cells"`
}

func NewGameView(s session.Snapshot) GameView {
	rows, cols, mc := s.Board.Params().Unpack()
	cells := make([]string, rows)
	var b strings.Builder
	for r := range rows {
		b.Reset()
		for c := range cols {
			p := mines.Pos{Row: r, Col: c}
			if s.Mask.Revealed(p) {
				b.WriteString(s.Board.At(p).String())
			} else {
				b.WriteByte('#')
			}
		}
		cells[r] = b.String()
	}

	view := GameView{
		Rows:         rows,
		Cols:         cols,
		Mines:        mc,
		Seed:         s.Board.Params().Seed(),
		State:        s.State.String(),
		RevealedSafe: s.RevealedSafe,
		Cells:        cells,
	}
	if s.State != mines.AwaitingStart {
		view.Cursor = &PosView{Row: s.Cursor.Row, Col: s.Cursor.Col}
	}
	return view
}

type SessionDTO struct {
	SessionID string   `json:"session_id"`
	Player    string   `json:"player"`
	Token     string   `json:"token,omitempty"`
	Revealed  int      `json:"revealed"`
	Game      GameView `json:"game"`
	// Warning is set when the outcome was counted but could not be saved.
	Warning string `json:"warning,omitempty"`
}

func NewSessionDTO(s *session.Session) *SessionDTO {
	return &SessionDTO{
		SessionID: s.ID.String(),
		Player:    s.Player,
		Game:      NewGameView(s.Snapshot()),
	}
}

type RecordDTO struct {
	Player  string  `json:"player"`
	Total   int     `json:"total"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"win_rate"`
}

func NewRecordDTO(player string, r records.Record) RecordDTO {
	return RecordDTO{
		Player:  player,
		Total:   r.Total,
		Wins:    r.Wins,
		Losses:  r.Losses,
		WinRate: r.WinRate(),
	}
}
