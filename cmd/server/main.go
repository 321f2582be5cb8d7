package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/AnJayAx/Personality-Parade/internal/config"
	"github.com/AnJayAx/Personality-Parade/internal/content"
	"github.com/AnJayAx/Personality-Parade/internal/flavor"
	"github.com/AnJayAx/Personality-Parade/internal/httpapi"
	"github.com/AnJayAx/Personality-Parade/internal/hub"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	pool, err := content.DefaultPool()
	if err != nil {
		logger.Fatal("loading category pool", zap.Error(err))
	}

	var gen flavor.Generator = flavor.Canned{}
	if cfg.Flavor.OpenAIKey != "" {
		gen = flavor.NewOpenAI(cfg.Flavor.OpenAIKey, cfg.Flavor.OpenAIModel)
		logger.Info("flavor text via OpenAI", zap.String("model", cfg.Flavor.OpenAIModel))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx, hub.Deps{
		Pool:     pool,
		Gen:      gen,
		Logger:   logger,
		Settings: cfg.RoomSettings(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           httpapi.SetupRoutes(h, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		h.Inbox() <- hub.ShutdownHub{}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	if lvl, err := zapcore.ParseLevel(cfg.Logging.Level); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zcfg.Build()
}
