package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-shop/internal/auth"
	"github.com/diewo77/go-shop/internal/db"
	"github.com/diewo77/go-shop/internal/policy"
	"github.com/diewo77/go-shop/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(e *env) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				e.cfg.Server.Port = port
			}
			return serve(cmd.Context(), e)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default $PORT or 8080)")
	return cmd
}

func serve(ctx context.Context, e *env) error {
	cfg := e.cfg
	conn, err := e.openDB()
	if err != nil {
		return err
	}
	if err := e.migrate(conn); err != nil {
		return err
	}
	if cfg.App.Seed {
		if err := db.Seed(conn, cfg.App.AdminPassword, time.Now()); err != nil {
			return err
		}
		e.log.Info("demo data seeded")
	}

	if cfg.App.SessionSecret == "" {
		e.log.Warn("SESSION_SECRET is empty, using the development key")
	}
	auth.SetSecret(cfg.App.SessionSecret)

	routerCfg := policy.NewRouterConfig(conn, e.log)
	auth.SetUserVerifier(routerCfg.Store.UserExists)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.NewApp(routerCfg, e.log.Named("http")),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		e.log.Info("server starting", zap.String("addr", srv.Addr), zap.Bool("dev", cfg.App.Dev))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	e.log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	e.log.Info("server stopped gracefully")
	return nil
}
