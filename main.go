package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"staff-tracker/internal/config"
	"staff-tracker/internal/db"
	"staff-tracker/internal/live"
	"staff-tracker/internal/logging"
	"staff-tracker/internal/router"
	"staff-tracker/internal/service"
	"staff-tracker/internal/store"
	"staff-tracker/internal/store/postgres"
	"staff-tracker/internal/store/sqlite"
)

const shutdownTimeout = 10 * time.Second

func main() {
	root := &cobra.Command{
		Use:           "staff-tracker",
		Short:         "Employee, department and task tracker with live queries",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Migrate the store and serve HTTP, RPC and live endpoints",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply the schema and exit",
			RunE:  runMigrate,
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg config.AppConfig) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return postgres.New(pool), nil
	default:
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqlite.New(conn), nil
	}
}

func setup(ctx context.Context) (config.AppConfig, *logrus.Logger, store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, nil, err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	st, err := openStore(ctx, cfg)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return cfg, nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return cfg, log, st, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, st, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	log.WithField("driver", cfg.StoreDriver).Info("schema up to date")
	return nil
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, st, err := setup(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	broker := live.NewBroker(log)
	defer broker.Close()

	gin.SetMode(cfg.GinMode)
	svc := service.New(st, broker, log)
	engine, liveHandler := router.New(st, svc, broker, log)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(liveHandler.Close)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(logrus.Fields{"port": cfg.Port, "driver": cfg.StoreDriver}).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
