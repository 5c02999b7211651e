// Package batch drives the extraction pipeline across all photos of one
// submission: bounded fan-out, per-photo failure isolation, deterministic
// artifact naming and the batch manifest.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nbelhadj/registre-extractor/constants"
	"github.com/nbelhadj/registre-extractor/internal/entity"
	"github.com/nbelhadj/registre-extractor/internal/llm"
	"github.com/nbelhadj/registre-extractor/internal/multiplex"
	"github.com/nbelhadj/registre-extractor/internal/workbook"
)

const defaultConcurrency = 4

type Orchestrator struct {
	log         *slog.Logger
	extractor   llm.PayloadExtractor
	resolver    *multiplex.Resolver
	generator   *workbook.Generator
	concurrency int
	now         func() time.Time
}

func NewOrchestrator(logger *slog.Logger, extractor llm.PayloadExtractor, resolver *multiplex.Resolver, generator *workbook.Generator, concurrency int) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Orchestrator{
		log:         logger,
		extractor:   extractor,
		resolver:    resolver,
		generator:   generator,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// WithClock fixes the generation timestamp source. Tests use it to get
// reproducible workbook bytes.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	if now != nil {
		o.now = now
	}
	return o
}

// Run processes every photo exactly once and returns the completed manifest
// plus all artifacts, both in submission order. A failure on one photo never
// aborts the batch: extraction errors become fallback artifacts and a FAILED
// status. Only an internal inconsistency (schema lookup or workbook render
// failure) propagates as an error.
//
// Cancellation stops issuing new extraction calls; photos already started
// complete and are recorded, photos not yet started are recorded as failed
// with a fallback artifact.
func (o *Orchestrator) Run(ctx context.Context, batchID string, photos []entity.UploadedPhoto) (entity.BatchManifest, []entity.OutputArtifact, error) {
	start := o.now()
	o.log.Info("batch.run.start", "batch_id", batchID, "photos", len(photos), "concurrency", o.concurrency)

	entries := make([]entity.PhotoResult, len(photos))
	artifacts := make([][]entity.OutputArtifact, len(photos))

	g := new(errgroup.Group)
	g.SetLimit(o.concurrency)
	for i, photo := range photos {
		i, photo := i, photo
		g.Go(func() error {
			arts, res, err := o.processPhoto(ctx, batchID, photo)
			if err != nil {
				return err
			}
			entries[i] = res
			artifacts[i] = arts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return entity.BatchManifest{}, nil, fmt.Errorf("batch %s: %w", batchID, err)
	}

	manifest := entity.BatchManifest{BatchID: batchID, Entries: entries}
	var flat []entity.OutputArtifact
	for _, arts := range artifacts {
		flat = append(flat, arts...)
	}

	failed := 0
	for _, e := range entries {
		if e.Status == constants.PhotoStatusFailed {
			failed++
		}
	}
	o.log.Info("batch.run.ok",
		"batch_id", batchID,
		"photos", len(photos),
		"artifacts", len(flat),
		"failed", failed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return manifest, flat, nil
}

func (o *Orchestrator) processPhoto(ctx context.Context, batchID string, photo entity.UploadedPhoto) ([]entity.OutputArtifact, entity.PhotoResult, error) {
	// Issue no new extraction calls once the batch is canceled; the photo is
	// still recorded so the manifest stays complete.
	if err := ctx.Err(); err != nil {
		return o.failPhoto(batchID, photo, fmt.Errorf("batch canceled: %w", err))
	}

	payload, _, err := o.extractor.ExtractPayload(ctx, photo)
	if err != nil {
		if errors.Is(err, llm.ErrExtractionService) || errors.Is(err, llm.ErrMalformedResponse) || ctx.Err() != nil {
			return o.failPhoto(batchID, photo, err)
		}
		// Unclassified extractor errors get the same local recovery; the
		// batch must not abort on external input.
		o.log.Warn("batch.extract.unclassified_error", "photo", photo.Name, "error", err)
		return o.failPhoto(batchID, photo, err)
	}

	records, err := o.resolver.Resolve(photo, payload)
	if err != nil {
		// Schema lookup failures mean the system is misconfigured; fatal.
		return nil, entity.PhotoResult{}, err
	}
	if len(records) == 0 {
		// Zero detected types and detection failure are the same recoverable
		// case: the photo was submitted expecting at least one document.
		return o.failPhoto(batchID, photo, errors.New("no document types detected"))
	}

	at := o.now()
	arts := make([]entity.OutputArtifact, 0, len(records))
	for _, rec := range records {
		art, err := o.generator.Render(rec, at)
		if err != nil {
			return nil, entity.PhotoResult{}, err
		}
		art.BatchID = batchID
		art.Name = artifactName(photo, rec.DocType, len(records) > 1)
		arts = append(arts, *art)
	}

	res := entity.PhotoResult{
		PhotoName: photo.Name,
		Artifacts: artifactNames(arts),
		Status:    constants.PhotoStatusSuccess,
	}
	return arts, res, nil
}

// failPhoto converts any recoverable per-photo failure into a fallback
// artifact and a FAILED manifest entry.
func (o *Orchestrator) failPhoto(batchID string, photo entity.UploadedPhoto, cause error) ([]entity.OutputArtifact, entity.PhotoResult, error) {
	art, err := o.generator.RenderFallback(photo, constants.DocTypeUnknown, o.now())
	if err != nil {
		return nil, entity.PhotoResult{}, err
	}
	art.BatchID = batchID
	art.Name = artifactName(photo, art.DocType, false)

	o.log.Warn("batch.photo.failed", "batch_id", batchID, "photo", photo.Name, "error", cause)
	res := entity.PhotoResult{
		PhotoName: photo.Name,
		Artifacts: []string{art.Name},
		Status:    constants.PhotoStatusFailed,
		Error:     cause.Error(),
	}
	return []entity.OutputArtifact{*art}, res, nil
}

// artifactName derives the workbook filename: the photo stem alone when the
// photo yielded a single record, the stem plus a type suffix when it yielded
// several. Photo names are unique per batch and type suffixes unique per
// photo, so names never collide.
func artifactName(photo entity.UploadedPhoto, t constants.DocType, multi bool) string {
	if multi {
		return photo.Stem() + "__" + t.FileSuffix() + ".xlsx"
	}
	return photo.Stem() + ".xlsx"
}

func artifactNames(arts []entity.OutputArtifact) []string {
	names := make([]string, len(arts))
	for i, a := range arts {
		names[i] = a.Name
	}
	return names
}
