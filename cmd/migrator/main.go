package main

import (
	"errors"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/vancomm/minewalk/internal/config"
	"github.com/vancomm/minewalk/internal/database"
)

func main() {
	log := logrus.New()

	fs := config.Flags("minewalk-migrator")
	down := fs.Bool("down", false, "roll back every migration")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}
	if err := fs.Set("store.driver", config.DriverPostgres); err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		log.WithError(err).Fatal("unable to load config")
	}
	if log, err = config.NewLogger(cfg.Log, cfg.Development(), os.Stderr); err != nil {
		logrus.WithError(err).Fatal("unable to set up logging")
	}

	migrator, err := database.NewMigrator(cfg.Store.DSN)
	if err != nil {
		log.WithError(err).Fatal("unable to connect to db")
	}
	defer migrator.Close()

	if *down {
		err = migrator.Down()
	} else {
		err = migrator.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.WithError(err).Fatal("migration failed")
	}

	version, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info("no migrations applied")
		return
	}
	if err != nil {
		log.WithError(err).Fatal("unable to check migration version")
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}
