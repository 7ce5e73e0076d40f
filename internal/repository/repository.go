package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minewalk/internal/config"
	"github.com/vancomm/minewalk/internal/database"
	"github.com/vancomm/minewalk/internal/records"
)

var Log = logrus.New()

// ErrSchemaMissing is returned by the PostgreSQL store when the
// player_record table does not exist.
var ErrSchemaMissing = errors.New("player_record table is missing, run the migrator")

// Open creates the store selected by cfg.Driver. The returned close function
// is never nil.
func Open(ctx context.Context, cfg config.Store) (records.Store, func() error, error) {
	noop := func() error { return nil }

	Log.WithFields(logrus.Fields{
		"driver": cfg.Driver,
		"path":   cfg.Path,
	}).Debug("opening record store")

	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemory(), noop, nil
	case config.DriverCSV:
		s, err := NewCSV(cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case config.DriverSQLite:
		s, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case config.DriverPostgres:
		if cfg.Migrate {
			if err := database.Migrate(cfg.DSN); err != nil {
				return nil, noop, err
			}
		}
		pool, err := database.Connect(ctx, cfg.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("unable to connect to postgres: %w", err)
		}
		return NewPostgres(pool), func() error { pool.Close(); return nil }, nil
	}
	return nil, noop, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
