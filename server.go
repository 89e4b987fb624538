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

	"education-backend/config"
	"education-backend/database"
	"education-backend/handlers"
	"education-backend/middleware"
	"education-backend/repository"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Connect to PostgreSQL, apply the schema when DB_AUTO_MIGRATE is set,
and serve the API until SIGINT or SIGTERM.`,
		RunE: runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	logrus.Info("Starting education backend")

	db, err := database.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(db, false); err != nil {
			return fmt.Errorf("error migrating database: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           newRouter(db, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", srv.Addr).Info("Server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logrus.WithField("timeout", cfg.ShutdownTimeout).Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logrus.Info("Server stopped")
	return nil
}

// newRouter wires repositories, handlers and middleware around db.
func newRouter(db *sqlx.DB, c *config.Config) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Metrics)

	handlers.RegisterRoutes(r,
		handlers.NewGroupHandler(repository.NewGroupRepository(db)),
		handlers.NewStudentHandler(repository.NewStudentRepository(db)),
		handlers.NewSystemHandler(db),
	)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.NotFoundHandler = middleware.Metrics(r.NotFoundHandler)
	r.MethodNotAllowedHandler = middleware.Metrics(r.MethodNotAllowedHandler)

	var h http.Handler = r
	h = middleware.Logging(logrus.StandardLogger())(h)
	h = middleware.RequestID(h)
	h = middleware.CORS(c.CORSAllowedOrigins)(h)
	return h
}
