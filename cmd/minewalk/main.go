package main

import (
	"context"
	"errors"
	"hash/maphash"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/vancomm/minewalk/internal/config"
	"github.com/vancomm/minewalk/internal/mines"
	"github.com/vancomm/minewalk/internal/records"
	"github.com/vancomm/minewalk/internal/repository"
	"github.com/vancomm/minewalk/internal/session"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func main() {
	log := logrus.New()

	fs := config.Flags("minewalk")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		log.WithError(err).Fatal("unable to load config")
	}

	// The terminal belongs to the game; logs only go to log.file.
	log, err = config.NewLogger(cfg.Log, cfg.Development(), io.Discard)
	if err != nil {
		logrus.WithError(err).Fatal("unable to set up logging")
	}
	for _, l := range []*logrus.Logger{mines.Log, records.Log, repository.Log, session.Log} {
		config.Adopt(l, log)
	}
	log.WithFields(cfg.Fields()).Debug("loaded config")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := repository.Open(ctx, cfg.Store)
	if err != nil {
		log.WithError(err).Fatal("unable to open record store")
	}
	defer closeStore()
	ledger := records.NewLedger(store)

	screen, err := tcell.NewScreen()
	if err != nil {
		log.WithError(err).Fatal("unable to open terminal")
	}
	if err := screen.Init(); err != nil {
		log.WithError(err).Fatal("unable to initialise terminal")
	}
	screen.EnableMouse(tcell.MouseButtonEvents)

	go func() {
		<-ctx.Done()
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	newUI(ctx, screen, ledger, cfg.Game, createRand()).run()
	screen.Fini()

	if err := ledger.Flush(context.Background()); err != nil {
		log.WithError(err).Error("unable to save records")
		os.Stderr.WriteString("some records could not be saved: " + err.Error() + "\n")
	}
}
