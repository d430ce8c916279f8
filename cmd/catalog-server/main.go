package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/config"
	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/httpapi"
	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/proxy"
	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/screenshot"
	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/store"
	"github.com/bloodyjonesy/NuveiCashierCatalog/web"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()

	st, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("store init failed", zap.Error(err))
	}
	defer st.Close()

	client := &http.Client{Timeout: 60 * time.Second}
	capturer := screenshot.NewCapturer(cfg.DataDir, os.Getenv("CHROME_PATH"), log)

	server := httpapi.NewServer(httpapi.Options{
		Config:     cfg,
		Store:      st,
		Preview:    proxy.NewPreview(client, log),
		Resource:   proxy.NewResource(cfg.UpstreamOrigin(), client, log),
		Capturer:   capturer,
		Logger:     log,
		StaticRoot: web.Handler(),
		ThemesDir:  capturer.ThemesDir(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      server.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("theme catalog starting",
			zap.String("port", cfg.HTTPPort),
			zap.String("storage", st.Mode()),
			zap.String("ppp_base_url", cfg.PPPBaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}

// openStore picks Postgres when a database URL is configured, the JSON file
// store otherwise.
func openStore(cfg *config.Config, log *zap.Logger) (store.Store, error) {
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		pg, err := store.NewPGStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Info("using postgres store")
		return pg, nil
	}
	log.Info("using file store", zap.String("dir", cfg.DataDir))
	return store.NewFileStore(cfg.DataDir)
}
