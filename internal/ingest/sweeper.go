// Package ingest moves newly dropped image files into the asset directory under
// generated ids and registers a metadata record for each.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	imagemodels "io.winapps.imagealbum/internal/models/image"
	"io.winapps.imagealbum/internal/store"
)

// Invalidator drops a cached listing after new records are stored
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Config struct {
	IncomingDir string
	AssetDir    string
	// Summarizer fills category and summary of ingested images; nil keeps the placeholders
	Summarizer Summarizer
}

// claimPrefix marks incoming files taken by a sweep. Hidden names are never ingested.
const claimPrefix = ".claim-"

// Sweeper moves files from the incoming directory to the asset directory
type Sweeper struct {
	incomingDir string
	assetDir    string
	store       store.ImageStore
	cache       Invalidator
	summarizer  Summarizer
	logger      *zap.SugaredLogger
	newID       func() string
	removeFile  func(string) error

	mu        sync.Mutex
	scheduler *cron.Cron
}

// NewSweeper creates a sweeper. cache may be nil.
func NewSweeper(cfg Config, imageStore store.ImageStore, cache Invalidator, logger *zap.SugaredLogger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Sweeper{
		incomingDir: cfg.IncomingDir,
		assetDir:    cfg.AssetDir,
		store:       imageStore,
		cache:       cache,
		summarizer:  cfg.Summarizer,
		logger:      logger,
		newID:       uuid.NewString,
		removeFile:  os.Remove,
	}
}

// Sweep ingests every regular file currently in the incoming directory and
// returns how many were moved. A failure on one file does not stop the others.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, dir := range []string{s.incomingDir, s.assetDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	entries, err := os.ReadDir(s.incomingDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read incoming directory: %w", err)
	}

	moved := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		id, err := s.ingestFile(ctx, entry.Name())
		if err != nil {
			s.logger.Errorw("failed to ingest image", "file", entry.Name(), "error", err)
			continue
		}
		s.logger.Infow("image ingested", "file", entry.Name(), "image_id", id)
		moved++
	}

	if moved > 0 && s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warnw("images cache invalidation failed", "error", err)
		}
	}

	return moved, ctx.Err()
}

// ingestFile claims name by renaming it, copies it to a fresh id, records it,
// then removes the claimed source
func (s *Sweeper) ingestFile(ctx context.Context, name string) (string, error) {
	id := s.newID()
	src := filepath.Join(s.incomingDir, name)
	claimed := filepath.Join(s.incomingDir, claimPrefix+id)
	dst := filepath.Join(s.assetDir, id)

	if err := os.Rename(src, claimed); err != nil {
		return "", fmt.Errorf("failed to claim %s: %w", name, err)
	}

	if err := copyFile(claimed, dst); err != nil {
		s.release(claimed, src)
		return "", err
	}

	rec := s.describe(ctx, id, name, dst)
	if err := s.store.Insert(ctx, rec); err != nil {
		// hand the source back for the next sweep
		_ = os.Remove(dst)
		s.release(claimed, src)
		return "", err
	}

	// the record exists, so a leftover claimed file only costs disk space
	if err := s.removeFile(claimed); err != nil {
		s.logger.Warnw("ingested source not removed", "file", claimed, "image_id", id, "error", err)
	}
	return id, nil
}

// describe builds the record for an ingested file, asking the summarizer when one is set
func (s *Sweeper) describe(ctx context.Context, id, name, path string) imagemodels.Record {
	rec := imagemodels.Record{ID: id, Category: imagemodels.DefaultCategory, Summary: name}
	if s.summarizer == nil {
		return rec
	}

	summary, err := s.summarizer.Summarize(ctx, path)
	if err != nil {
		s.logger.Warnw("image summarisation failed, keeping placeholders", "file", name, "image_id", id, "error", err)
		return rec
	}
	rec.Summary = summary.Summary
	rec.Category = summary.Category
	return rec
}

func (s *Sweeper) release(claimed, src string) {
	if err := os.Rename(claimed, src); err != nil {
		s.logger.Errorw("failed to release claimed file", "file", claimed, "error", err)
	}
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", dst, cerr)
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Sync()
}

// Start runs Sweep on the given cron schedule until ctx is cancelled or Stop is called.
// A sweep still running when the next one is due causes that run to be skipped.
func (s *Sweeper) Start(ctx context.Context, schedule string) error {
	logger := cronLogger{s.logger}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	_, err := c.AddFunc(schedule, func() {
		moved, err := s.Sweep(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Errorw("ingest sweep failed", "error", err)
			return
		}
		if moved > 0 {
			s.logger.Infow("ingest sweep finished", "moved", moved)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid ingest schedule %q: %w", schedule, err)
	}

	s.scheduler = c
	c.Start()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	if s.scheduler == nil {
		return
	}
	<-s.scheduler.Stop().Done()
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
