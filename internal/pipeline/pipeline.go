// Package pipeline orchestrates a full run: document discovery, concurrent
// ingestion, per-subject task generation, and artifact writing. Fatal
// conditions come back as errors; the decision to exit the process stays at
// the cmd boundary.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackzampolin/taskmill/internal/chunker"
	"github.com/jackzampolin/taskmill/internal/extract"
	"github.com/jackzampolin/taskmill/internal/generator"
	"github.com/jackzampolin/taskmill/internal/ingest"
	"github.com/jackzampolin/taskmill/internal/runctx"
)

// Result summarizes a completed run.
type Result struct {
	Subjects     int
	TasksWritten int
	Rebalances   int
	Artifacts    []string
}

// Run executes the pipeline using the services carried in ctx.
//
// Subjects are processed sequentially; within one subject the generation
// loop is single-threaded, so every bias check sees a fully-updated
// distribution from all prior batches. A fatal error from any subject
// abandons the rest of the run, but artifacts already written stay valid.
func Run(ctx context.Context) (*Result, error) {
	svcs := runctx.ServicesFrom(ctx)
	if svcs == nil {
		return nil, fmt.Errorf("run services missing from context")
	}
	cfg := svcs.Config
	logger := svcs.Logger

	paths, err := discover(cfg.Storage.InputFolder)
	if err != nil {
		return nil, err
	}
	logger.Info("discovered input files", "count", len(paths), "folder", cfg.Storage.InputFolder)

	pool := ingest.New(ingest.Config{
		Parallel: cfg.ParallelProcessing.Enabled,
		Workers:  cfg.ParallelProcessing.NumWorkers,
		Governor: svcs.Governor,
		Logger:   logger,
	})
	subjects, err := pool.Run(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		return nil, fmt.Errorf("%w: every file was skipped during ingestion", ErrNoInputFiles)
	}

	// Deterministic subject order; merge order inside a subject is not.
	names := make([]string, 0, len(subjects))
	for name := range subjects {
		names = append(names, name)
	}
	sort.Strings(names)

	gen := generator.New(generator.Config{
		BatchSize:                 cfg.TaskGeneration.BatchSize,
		MinTasks:                  cfg.TaskGeneration.MinTasksPerSubject,
		MaxTasks:                  cfg.TaskGeneration.MaxTasksPerSubject,
		QualityThreshold:          cfg.TaskGeneration.QualityThreshold,
		BiasThreshold:             cfg.BiasDetection.Threshold,
		MaxRebalancingAttempts:    cfg.BiasDetection.MaxRebalancingAttempts,
		MinTasksBeforeRebalancing: cfg.BiasDetection.MinTasksBeforeRebalancing,
		MaxStalledIterations:      cfg.TaskGeneration.MaxStalledIterations,
	}, generator.Deps{
		Table:      cfg.KeywordTable(),
		Summarizer: svcs.Summarizer,
		Governor:   svcs.Governor,
		Logger:     logger,
		Rng:        svcs.Rng,
	})

	result := &Result{}
	for i, name := range names {
		chunks := chunker.Chunk(subjects[name], cfg.TaskGeneration.MaxChunkChars)
		logger.Info("generating tasks", "subject", name, "chunks", len(chunks))

		outcome, err := gen.Run(ctx, chunks)
		if err != nil {
			return nil, fmt.Errorf("subject %s: %w", name, err)
		}

		path, err := svcs.Writer.Write(name, outcome.Tasks, i+1)
		if err != nil {
			return nil, fmt.Errorf("subject %s: %w", name, err)
		}

		logger.Info("subject complete",
			"subject", name,
			"tasks", len(outcome.Tasks),
			"iterations", outcome.Iterations,
			"rebalances", outcome.Rebalances,
			"truncated", outcome.Truncated,
			"stalled", outcome.Stalled,
			"artifact", path,
		)

		result.Subjects++
		result.TasksWritten += len(outcome.Tasks)
		result.Rebalances += outcome.Rebalances
		result.Artifacts = append(result.Artifacts, path)
	}

	return result, nil
}

// discover lists supported document files in the input folder.
// An unreadable folder or an empty file list is fatal before any
// ingestion work begins.
func discover(folder string) ([]string, error) {
	info, err := os.Stat(folder)
	if err != nil {
		return nil, fmt.Errorf("invalid input folder %s: %w", folder, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("invalid input folder %s: not a directory", folder)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to list input folder %s: %w", folder, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(folder, entry.Name())
		if extract.Supported(path) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputFiles, folder)
	}
	return paths, nil
}
