// Package ingest handles document ingestion from an input folder.
// It extracts text from each file and merges results into a subject map
// keyed by a name derived from the file's base identity.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jackzampolin/taskmill/internal/extract"
	"github.com/jackzampolin/taskmill/internal/governor"
)

// Config configures an ingestion Pool.
type Config struct {
	Parallel bool
	Workers  int // worker concurrency bound when Parallel (default: 4)
	Governor *governor.Governor
	Logger   *slog.Logger
}

// Pool extracts text from input files and aggregates it per subject.
type Pool struct {
	parallel bool
	workers  int
	gov      *governor.Governor
	logger   *slog.Logger
}

// New creates an ingestion Pool.
func New(cfg Config) *Pool {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	gov := cfg.Governor
	if gov == nil {
		gov = governor.New(governor.Config{Logger: logger})
	}
	return &Pool{
		parallel: cfg.Parallel,
		workers:  workers,
		gov:      gov,
		logger:   logger,
	}
}

// Run extracts every file and merges the text into a subject map. Files
// whose extraction fails or yields empty text are skipped with a logged
// warning. After every completed file the resource governor is consulted;
// a breach aborts the whole run, abandoning in-flight work.
//
// Merge order across workers is unspecified: each file's text is appended
// exactly once, but concatenation order within a subject is not
// deterministic when running in parallel.
func (p *Pool) Run(ctx context.Context, paths []string) (map[string]string, error) {
	if !p.parallel {
		return p.runSequential(ctx, paths)
	}
	return p.runParallel(ctx, paths)
}

// runSequential is a pure reduction over the file list, behaviorally
// equivalent to the parallel path minus the merge-serialization concern.
func (p *Pool) runSequential(ctx context.Context, paths []string) (map[string]string, error) {
	subjects := make(map[string]string)

	for _, path := range paths {
		text, ok := p.extractOne(ctx, path)
		if ok {
			merge(subjects, DeriveSubject(path), text)
		}
		if err := p.gov.Check(ctx); err != nil {
			return nil, fmt.Errorf("ingestion aborted: %w", err)
		}
	}

	return subjects, nil
}

// runParallel extracts files on a bounded worker group. The subject map is
// the only shared state; a mutex serializes merges so concurrent
// completions targeting the same subject never lose updates.
func (p *Pool) runParallel(ctx context.Context, paths []string) (map[string]string, error) {
	subjects := make(map[string]string)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, path := range paths {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			text, ok := p.extractOne(gctx, path)
			if ok {
				mu.Lock()
				merge(subjects, DeriveSubject(path), text)
				mu.Unlock()
			}

			if err := p.gov.Check(gctx); err != nil {
				return fmt.Errorf("ingestion aborted: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return subjects, nil
}

// extractOne runs the extractor for one file. Extraction failure and empty
// text are per-file events: logged, skipped, never escalated.
func (p *Pool) extractOne(ctx context.Context, path string) (string, bool) {
	extractor, ok := extract.ForPath(path)
	if !ok {
		p.logger.Warn("skipping unsupported file", "file", filepath.Base(path))
		return "", false
	}

	text, err := extractor.Extract(ctx, path)
	if err != nil {
		p.logger.Warn("extraction failed, skipping file", "file", filepath.Base(path), "error", err)
		return "", false
	}
	if strings.TrimSpace(text) == "" {
		p.logger.Warn("extraction yielded no text, skipping file", "file", filepath.Base(path))
		return "", false
	}

	return text, true
}

// merge appends text to the subject's accumulated content.
func merge(subjects map[string]string, name, text string) {
	if existing, ok := subjects[name]; ok {
		subjects[name] = existing + "\n\n" + text
		return
	}
	subjects[name] = text
}

var partSuffix = regexp.MustCompile(`-\d+$`)

// DeriveSubject extracts a subject name from a file path.
// e.g., "quarterly-report.pdf" -> "quarterly-report"
// e.g., "notes-1.pdf", "notes-2.pdf" -> "notes" (multi-part files merge)
func DeriveSubject(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return partSuffix.ReplaceAllString(name, "")
}
