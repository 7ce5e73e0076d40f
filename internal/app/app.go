package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minewalk/internal/config"
	"github.com/vancomm/minewalk/internal/middleware"
	"github.com/vancomm/minewalk/internal/records"
	"github.com/vancomm/minewalk/internal/repository"
	"github.com/vancomm/minewalk/internal/session"
)

type App struct {
	logger *logrus.Logger
	cfg    *config.Config
	router *http.ServeMux
	hub    *session.Hub
	jwt    *config.JWT
	ws     *config.WebSocket
}

func New(logger *logrus.Logger, cfg *config.Config) *App {
	app := &App{
		logger: logger,
		cfg:    cfg,
		router: http.NewServeMux(),
	}

	return app
}

// Handler builds the routes around ledger. It is split from Start so tests
// can serve the app without a listener.
func (a *App) Handler(ledger *records.Ledger) (http.Handler, error) {
	jwt, err := config.NewJWT(a.cfg.Server)
	if err != nil {
		return nil, err
	}
	a.jwt = jwt

	ws, err := config.NewWebSocket(a.cfg.Server.AllowedOrigins)
	if err != nil {
		return nil, err
	}
	a.ws = ws

	a.hub = session.NewHub(ledger, createRand())
	a.loadRoutes()

	return middleware.Wrap(
		a.router,
		middleware.Auth(a.logger, a.jwt),
		middleware.Cors(a.cfg.Server.AllowedOrigins),
		middleware.Logging(a.logger),
	), nil
}

func (a *App) Start(ctx context.Context) error {
	store, closeStore, err := repository.Open(ctx, a.cfg.Store)
	if err != nil {
		return fmt.Errorf("unable to open record store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			a.logger.WithError(err).Warn("unable to close record store")
		}
	}()

	ledger := records.NewLedger(store)
	handler, err := a.Handler(ledger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    a.cfg.Server.Addr,
		Handler: handler,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.WithField("addr", server.Addr).Info("server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		if ferr := ledger.Flush(shutdownCtx); ferr != nil {
			a.logger.WithError(ferr).Error("unable to flush records")
		}
		return err
	})

	return g.Wait()
}
