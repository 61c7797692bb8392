package pipeline

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/taskmill/internal/config"
	"github.com/jackzampolin/taskmill/internal/governor"
	"github.com/jackzampolin/taskmill/internal/runctx"
	"github.com/jackzampolin/taskmill/internal/summarize"
	"github.com/jackzampolin/taskmill/internal/types"
	"github.com/jackzampolin/taskmill/internal/writer"
)

const financeDoc = `The bank issued the invoice for the quarterly budget review. Every payment
was reconciled against the revenue ledger by the finance team this month.

The budget committee approved additional invoice processing capacity at the
bank, with payment terms renegotiated to protect projected revenue.`

const itDoc = `The software release notes cover the server migration and the network
changes rolled out with the new code. Every database schema change shipped
behind a feature flag in the software.

Operations reviewed the server capacity plan and updated the network
monitoring code across the software fleet and database replicas.`

func testServices(t *testing.T, inputDir, outputDir string) *runctx.Services {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Storage.InputFolder = inputDir
	cfg.Storage.OutputFolder = outputDir
	cfg.TaskGeneration.BatchSize = 5
	cfg.TaskGeneration.MinTasksPerSubject = 8
	cfg.TaskGeneration.MaxTasksPerSubject = 20
	cfg.TaskGeneration.QualityThreshold = 0.5
	cfg.BiasDetection.Threshold = 5 // keep rebalancing out of this test's way
	cfg.ParallelProcessing.Enabled = true
	cfg.ParallelProcessing.NumWorkers = 2

	logger := slog.New(slog.DiscardHandler)
	out, err := writer.NewJSONL(writer.JSONLConfig{Dir: outputDir, RunID: "pipeline-test", Logger: logger})
	require.NoError(t, err)

	return &runctx.Services{
		Config:     cfg,
		Logger:     logger,
		Rng:        rand.New(rand.NewSource(11)),
		Governor:   governor.New(governor.Config{Logger: logger}),
		Summarizer: summarize.Noop{},
		Writer:     out,
	}
}

func TestRunEndToEnd(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "finance-report.txt"), []byte(financeDoc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "it-runbook.txt"), []byte(itDoc), 0o644))

	svcs := testServices(t, inputDir, outputDir)
	result, err := Run(runctx.WithServices(context.Background(), svcs))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Subjects)
	assert.Len(t, result.Artifacts, 2)
	assert.Greater(t, result.TasksWritten, 0)

	for _, artifact := range result.Artifacts {
		f, err := os.Open(artifact)
		require.NoError(t, err)

		scanner := bufio.NewScanner(f)
		require.True(t, scanner.Scan(), "artifact %s empty", artifact)

		var count int
		for scanner.Scan() {
			var task types.Task
			require.NoError(t, json.Unmarshal(scanner.Bytes(), &task))
			assert.NotEmpty(t, task.Description)
			assert.NotEmpty(t, task.Domain)
			assert.NotEmpty(t, task.RecommendedExecution)
			count++
		}
		f.Close()

		assert.LessOrEqual(t, count, svcs.Config.TaskGeneration.MaxTasksPerSubject,
			"artifact exceeds max_tasks_per_subject")
	}
}

func TestRunClassifiesByContent(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "it-runbook.txt"), []byte(itDoc), 0o644))

	svcs := testServices(t, inputDir, outputDir)
	result, err := Run(runctx.WithServices(context.Background(), svcs))
	require.NoError(t, err)
	require.Len(t, result.Artifacts, 1)

	data, err := os.ReadFile(result.Artifacts[0])
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"domain":"IT"`),
		"IT document produced no IT-labeled tasks")
}

func TestRunInvalidInputFolder(t *testing.T) {
	svcs := testServices(t, filepath.Join(t.TempDir(), "does-not-exist"), t.TempDir())

	_, err := Run(runctx.WithServices(context.Background(), svcs))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input folder")
}

func TestRunNoSupportedFiles(t *testing.T) {
	inputDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "image.png"), []byte{0x89}, 0o644))

	svcs := testServices(t, inputDir, t.TempDir())
	_, err := Run(runctx.WithServices(context.Background(), svcs))
	require.ErrorIs(t, err, ErrNoInputFiles)
}

func TestRunMissingServices(t *testing.T) {
	_, err := Run(context.Background())
	require.Error(t, err)
}
