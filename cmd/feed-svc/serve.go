package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gotweet/internal/common"
	"gotweet/internal/config"
	"gotweet/internal/wire"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(config.LoadConfig())
		},
	}
}

func serve(cfg *config.Config) error {
	app, cleanup, err := wire.InitializeApplication(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	server := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        newRouter(app),
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	serveErr := make(chan error, 1)
	go func() {
		app.Logger.WithFields(log.Fields{
			"addr":        server.Addr,
			"environment": cfg.Server.Environment,
		}).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		app.Logger.WithField("signal", sig.String()).Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		app.Logger.WithError(err).Error("server forced to shutdown")
		return err
	}
	app.Logger.Info("server gracefully stopped")
	return nil
}

func newRouter(app *wire.Application) *mux.Router {
	router := mux.NewRouter()
	router.Use(common.CORS)
	router.Use(common.RequestID)
	router.Use(common.Logging(app.Logger))

	router.HandleFunc("/api/v1/health", healthHandler(func(ctx context.Context) error {
		return app.Mongo.Client.Ping(ctx, nil)
	})).Methods(http.MethodGet)

	if app.Config.Metrics.Enabled {
		router.Handle(app.Config.Metrics.Path, promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	app.Handlers.RegisterRoutes(router, app.Auth)
	return router
}

type healthStatus struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}

// healthHandler reports 503 when the database does not answer a ping within two seconds.
func healthHandler(ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		body := healthStatus{Status: "healthy", Service: "gotweet-feed", Database: "up"}
		status := http.StatusOK
		if err := ping(ctx); err != nil {
			body.Status = "unhealthy"
			body.Database = "down"
			status = http.StatusServiceUnavailable
		}
		common.WriteJSON(w, status, body)
	}
}
