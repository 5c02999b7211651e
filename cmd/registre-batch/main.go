package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/nbelhadj/registre-extractor/constants"
	"github.com/nbelhadj/registre-extractor/internal/batch"
	"github.com/nbelhadj/registre-extractor/internal/common"
	"github.com/nbelhadj/registre-extractor/internal/entity"
	"github.com/nbelhadj/registre-extractor/internal/llm/openai"
	"github.com/nbelhadj/registre-extractor/internal/multiplex"
	"github.com/nbelhadj/registre-extractor/internal/workbook"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails.
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir         = flag.String("dir", "", "directory of registry photos to process (required)")
		out         = flag.String("out", "", "output directory for workbooks (defaults to <dir>/outputs)")
		concurrency = flag.Int("concurrency", 0, "max concurrent extraction calls")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(*dir, "outputs")
	}

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
	if *concurrency <= 0 {
		*concurrency = cfg.Batch.Concurrency
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	photos, skipped, err := loadPhotos(*dir)
	if err != nil {
		logger.Error("failed to read photo directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if len(photos) == 0 {
		printError("Error: no JPG/PNG photos found in %s\n", *dir)
		os.Exit(1)
	}
	logger.Info("photos loaded", "dir", *dir, "photos", len(photos), "skipped", skipped)

	extractor := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	orch := batch.NewOrchestrator(
		logger,
		extractor,
		multiplex.NewResolver(logger),
		workbook.NewGenerator(logger),
		*concurrency,
	)

	batchID := uuid.New().String()
	manifest, artifacts, err := orch.Run(ctx, batchID, photos)
	if err != nil {
		logger.Error("batch failed", "batch_id", batchID, "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		logger.Error("failed to create output directory", "dir", *out, "error", err)
		os.Exit(1)
	}
	for _, a := range artifacts {
		path := filepath.Join(*out, a.Name)
		if err := os.WriteFile(path, a.Content, 0o644); err != nil {
			logger.Error("failed to write artifact", "path", path, "error", err)
			os.Exit(1)
		}
	}

	succeeded, failed := 0, 0
	for _, e := range manifest.Entries {
		if e.Status == constants.PhotoStatusFailed {
			failed++
		} else {
			succeeded++
		}
	}

	logger.Info("batch complete",
		"batch_id", batchID,
		"photos", len(photos),
		"artifacts", len(artifacts),
		"succeeded", succeeded,
		"failed", failed,
		"output_dir", *out,
	)

	fmt.Printf("Batch %s complete!\n", batchID)
	fmt.Printf("- Photos processed: %d\n", len(photos))
	fmt.Printf("- Workbooks written: %d\n", len(artifacts))
	fmt.Printf("- Failed photos (fallback workbooks): %d\n", failed)
	fmt.Printf("- Output: %s\n", *out)
}

// loadPhotos reads every allowed image in dir (non-recursive), returning the
// photos and how many entries were skipped.
func loadPhotos(dir string) ([]entity.UploadedPhoto, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, err
	}
	var photos []entity.UploadedPhoto
	skipped := 0
	for _, e := range entries {
		if e.IsDir() {
			skipped++
			continue
		}
		ext := constants.NormalizeExt(filepath.Ext(e.Name()))
		if !constants.AllowedExt(ext) {
			skipped++
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, 0, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		photos = append(photos, entity.UploadedPhoto{
			Name:    e.Name(),
			Content: content,
			Ext:     ext,
		})
	}
	return photos, skipped, nil
}
