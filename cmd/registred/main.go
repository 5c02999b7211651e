package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nbelhadj/registre-extractor/internal/batch"
	"github.com/nbelhadj/registre-extractor/internal/common"
	"github.com/nbelhadj/registre-extractor/internal/httpapi"
	"github.com/nbelhadj/registre-extractor/internal/llm/openai"
	"github.com/nbelhadj/registre-extractor/internal/multiplex"
	"github.com/nbelhadj/registre-extractor/internal/workbook"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extractor := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	logger.Info("vision client initialized", "model", cfg.LLM.Model)

	orch := batch.NewOrchestrator(
		logger,
		extractor,
		multiplex.NewResolver(logger),
		workbook.NewGenerator(logger),
		cfg.Batch.Concurrency,
	)

	store := batch.NewStore(cfg.Batch.ArtifactTTL, logger)
	store.StartJanitor(ctx, cfg.Batch.JanitorInterval)

	api := httpapi.NewServer(logger, orch, store, cfg.Upload.MaxUploadMB)
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.Routes(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("stopped")
}
