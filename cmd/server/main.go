package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/vancomm/minewalk/internal/app"
	"github.com/vancomm/minewalk/internal/config"
	"github.com/vancomm/minewalk/internal/mines"
	"github.com/vancomm/minewalk/internal/records"
	"github.com/vancomm/minewalk/internal/repository"
	"github.com/vancomm/minewalk/internal/session"
)

func main() {
	log := logrus.New()

	fs := config.Flags("minewalk-server")
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

	log, err = config.NewLogger(cfg.Log, cfg.Development(), os.Stderr)
	if err != nil {
		logrus.WithError(err).Fatal("unable to set up logging")
	}
	for _, l := range []*logrus.Logger{mines.Log, records.Log, repository.Log, session.Log} {
		config.Adopt(l, log)
	}
	log.WithFields(cfg.Fields()).Debug("loaded config")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.New(log, cfg).Start(ctx); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
	log.Info("bye")
}
