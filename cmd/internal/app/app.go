// Package app wires the vrme server runtime: config, logging, metrics, storage and HTTP routes.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"vrme/cmd/identity"
	"vrme/cmd/internal/auth"
	authapi "vrme/cmd/internal/auth/api"
	"vrme/cmd/internal/auth/session"
	"vrme/cmd/internal/workpool"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App owns the server's long-lived resources: the db pool, the hashing pool and the HTTP handler.
type App struct {
	cfg Config
	log Logger

	db      *pgxpool.Pool
	pool    *workpool.Pool
	metrics *Metrics

	auth    *authapi.Handler
	handler http.Handler
}

// New constructs a fully wired App. An empty cfg.DB.URL selects in-memory stores.
func New(ctx context.Context, cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.Log)
	}

	a := &App{
		cfg:     cfg,
		log:     log,
		metrics: NewMetrics(),
	}

	accounts, sessions, err := a.newStores(ctx)
	if err != nil {
		return nil, err
	}

	a.pool = workpool.New(cfg.Auth.Workers, cfg.Auth.QueueSize, workpool.WithObserver(a.metrics.ObservePool))
	a.metrics.RegisterPool(a.pool)

	svc, err := auth.NewService(cfg.AuthService(), accounts, sessions, a.pool,
		auth.WithLogger(log),
		auth.WithMetrics(a.metrics),
	)
	if err != nil {
		a.close()
		return nil, err
	}

	a.auth = authapi.NewHandler(cfg.API(), svc, authapi.WithLogger(log))
	a.handler = a.routes()
	return a, nil
}

// newStores decides between Postgres-backed persistence and in-memory dev stores.
func (a *App) newStores(ctx context.Context) (identity.Store, session.Store, error) {
	if a.cfg.DB.URL == "" {
		a.log.Info("db.disabled.inmemory_store")
		accounts := identity.NewMemoryStore()
		return accounts, accounts.Sessions(), nil
	}

	db, err := NewDBPool(ctx, a.cfg.DB)
	if err != nil {
		return nil, nil, err
	}

	accounts, err := identity.NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	a.db = db
	a.log.Info("db.enabled.postgres_store", "migrations", !a.cfg.DB.SkipMigrations)
	return accounts, session.NewPostgresStore(db), nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

// Metrics returns the app's metric registry wrapper.
func (a *App) Metrics() *Metrics { return a.metrics }

// Run starts the HTTP server and blocks until context cancellation or fatal server error.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.Server.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.Server.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.Server.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.Server.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start",
		"addr", a.cfg.Server.Addr,
		"db_enabled", a.db != nil,
		"hash_workers", a.pool.Size(),
		"validity_window", a.cfg.Auth.ValidityWindow.String(),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		a.close()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), nonZeroDuration(a.cfg.Server.ShutdownTimeout, 10*time.Second))
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
	}

	a.close()
	a.log.Info("server.stopped")
	return err
}

// close drains the hashing pool, then releases the db pool.
func (a *App) close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// Close releases resources for an App that was never Run.
func (a *App) Close() { a.close() }

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
