package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joestump/bytevault/internal/api"
	"github.com/joestump/bytevault/internal/auth"
	"github.com/joestump/bytevault/internal/build"
	"github.com/joestump/bytevault/internal/config"
	"github.com/joestump/bytevault/internal/db"
	"github.com/joestump/bytevault/internal/logging"
	"github.com/joestump/bytevault/internal/metrics"
	"github.com/joestump/bytevault/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			tokens, err := auth.NewTokenIssuer(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
			if err != nil {
				return err
			}

			userStore := store.NewUserStore(database)
			linkStore := store.NewLinkStore(database)
			sessionStore := store.NewSessionStore(database)
			statsStore := store.NewStatsStore(database)

			router := api.NewRouter(api.Deps{
				BearerAuth:        auth.NewBearerTokenMiddleware(tokens, userStore),
				Tokens:            tokens,
				Hasher:            auth.NewPasswordHasher(nil),
				LinkStore:         linkStore,
				SessionStore:      sessionStore,
				UserStore:         userStore,
				Logger:            logger,
				CORSOrigins:       cfg.CORS.Origins,
				RateLimitRequests: cfg.RateLimit.Requests,
				RateLimitWindow:   cfg.RateLimit.Window,
			})

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				metrics.RunTotalsCollector(ctx, statsStore, cfg.StatsInterval, logger)
				return nil
			})
			g.Go(func() error {
				logger.WithField("addr", cfg.HTTP.Addr).WithField("version", build.Version).Info("listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			return g.Wait()
		},
	}
}
