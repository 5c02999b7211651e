package batch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nbelhadj/registre-extractor/internal/entity"
)

// ErrNotFound is returned for unknown batch ids or artifact names, including
// batches already swept by the retention janitor.
var ErrNotFound = errors.New("batch or artifact not found")

type storedBatch struct {
	manifest  entity.BatchManifest
	artifacts map[string]entity.OutputArtifact
	order     []string
	createdAt time.Time
}

// Store holds completed batches in memory for the download window. Nothing
// survives the retention TTL or a process restart.
type Store struct {
	mu      sync.RWMutex
	batches map[string]*storedBatch
	ttl     time.Duration
	log     *slog.Logger
	now     func() time.Time
}

func NewStore(ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		batches: make(map[string]*storedBatch),
		ttl:     ttl,
		log:     logger,
		now:     time.Now,
	}
}

// Put registers a completed batch. The manifest is immutable from here on.
func (s *Store) Put(manifest entity.BatchManifest, artifacts []entity.OutputArtifact) {
	b := &storedBatch{
		manifest:  manifest,
		artifacts: make(map[string]entity.OutputArtifact, len(artifacts)),
		order:     make([]string, 0, len(artifacts)),
		createdAt: s.now(),
	}
	for _, a := range artifacts {
		b.artifacts[a.Name] = a
		b.order = append(b.order, a.Name)
	}
	s.mu.Lock()
	s.batches[manifest.BatchID] = b
	s.mu.Unlock()
}

// Manifest returns the manifest for a stored batch.
func (s *Store) Manifest(batchID string) (entity.BatchManifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.batches[batchID]
	if !ok {
		return entity.BatchManifest{}, ErrNotFound
	}
	return b.manifest, nil
}

// Artifact returns one artifact by batch id and filename.
func (s *Store) Artifact(batchID, name string) (entity.OutputArtifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.batches[batchID]
	if !ok {
		return entity.OutputArtifact{}, ErrNotFound
	}
	a, ok := b.artifacts[name]
	if !ok {
		return entity.OutputArtifact{}, ErrNotFound
	}
	return a, nil
}

// Artifacts returns all artifacts of a batch in production order.
func (s *Store) Artifacts(batchID string) ([]entity.OutputArtifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.batches[batchID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]entity.OutputArtifact, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.artifacts[name])
	}
	return out, nil
}

// Sweep drops batches older than the retention TTL and returns how many were
// removed.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, b := range s.batches {
		if b.createdAt.Before(cutoff) {
			delete(s.batches, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps expired batches until the context is canceled.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := s.Sweep(); n > 0 {
					s.log.Info("batch.store.sweep", "removed", n)
				}
			}
		}
	}()
}
