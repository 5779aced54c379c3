package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/soaringjerry/Pulse/internal/api"
	"github.com/soaringjerry/Pulse/internal/config"
	dbstore "github.com/soaringjerry/Pulse/internal/db"
	"github.com/soaringjerry/Pulse/internal/logging"
	"github.com/soaringjerry/Pulse/internal/middleware"
	"github.com/soaringjerry/Pulse/internal/services"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.UsingDevSecret {
		logger.Warn("PULSE_JWT_SECRET is not set; using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("database")
	}
	store, err := dbstore.NewSQLStore(conn, cfg.DatabaseType, logger)
	if err != nil {
		logger.WithError(err).Fatal("init store")
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.WithError(cerr).Warn("close database")
		}
	}()

	mux := http.NewServeMux()
	api.NewRouter(store, api.Options{
		Tokens:   middleware.NewTokenIssuer(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL,
		Share: services.ShareConfig{
			PublicURL:    cfg.PublicURL,
			QRServiceURL: cfg.QRServiceURL,
			QRSize:       cfg.QRSize,
		},
		Logger: logger,
	}).Register(mux)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		status, ok := http.StatusOK, true
		if err := store.Ping(r.Context()); err != nil {
			logger.WithError(err).Warn("health check: database unreachable")
			status, ok = http.StatusServiceUnavailable, false
		}
		middleware.JSONResponse(w, status, map[string]any{
			"ok":         ok,
			"name":       "Pulse API",
			"commit":     cfg.Commit,
			"build_time": cfg.BuildTime,
		})
	})
	mux.HandleFunc("GET /version", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, map[string]any{
			"commit":     cfg.Commit,
			"build_time": cfg.BuildTime,
		})
	})

	// Static frontend, when bundled into the image.
	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	handler := middleware.WithLogging(logger)(
		middleware.CORS(cfg.CORSOrigin)(
			middleware.SecureHeaders(middleware.NoStore(mux))))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.WithField("addr", cfg.Addr).Info("Pulse server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown")
	}
}
