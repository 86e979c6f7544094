// Package app wires the store, services and HTTP router together and
// owns the server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/linkrank/internal/config"
	"github.com/vadimbarashkov/linkrank/internal/service"
	"github.com/vadimbarashkov/linkrank/pkg/postgres"
	"golang.org/x/sync/errgroup"

	api "github.com/vadimbarashkov/linkrank/internal/api/http"
	repo "github.com/vadimbarashkov/linkrank/internal/database/postgres"
)

// Run connects to the database, applies migrations, composes the
// services and serves the API until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	db, err := postgres.Connect(ctx, cfg.Postgres.DSN(), postgres.Pool{
		ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	defer db.Close()

	if err := postgres.RunMigrations("file://migrations", cfg.Postgres.DSN()); err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	userRepo := repo.NewUserRepository(db)
	sessionRepo := repo.NewSessionRepository(db)
	linkRepo := repo.NewLinkRepository(db)

	authSvc := service.NewAuthService(userRepo, sessionRepo, cfg.SessionTokenLength)
	linkSvc := service.NewLinkService(linkRepo, cfg.ShortCodeLength)
	userSvc := service.NewUserService(userRepo, linkRepo)

	logger := httplog.NewLogger("linkrank", httplog.Options{
		LogLevel: slog.LevelInfo,
		Concise:  cfg.Env != config.EnvProd,
	})

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        api.NewRouter(logger, authSvc, linkSvc, userSvc),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
