package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/vancomm/minewalk/internal/handlers"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(
		a.logger, a.hub, a.jwt, a.ws, a.cfg.Game,
	)

	a.router.HandleFunc("POST /sessions", game.NewGame)
	a.router.HandleFunc("GET /sessions/{id}", game.Fetch)
	a.router.HandleFunc("POST /sessions/{id}/start", game.Start)
	a.router.HandleFunc("POST /sessions/{id}/move", game.Move)
	a.router.HandleFunc("DELETE /sessions/{id}", game.Quit)
	a.router.HandleFunc("GET /sessions/{id}/connect", game.ConnectWS)
	a.router.HandleFunc("GET /players/{name}/record", game.Record)
}
