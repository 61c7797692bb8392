// Package writer persists per-subject task lists as dataset artifacts.
package writer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/taskmill/internal/types"
)

// Writer persists one subject's final task list.
type Writer interface {
	// Write stores the tasks for a subject and returns the artifact path.
	// seq orders artifacts within a run.
	Write(subject string, tasks []types.Task, seq int) (string, error)
}

// metadata is the leading record of every artifact.
type metadata struct {
	RunID       string `json:"run_id"`
	Subject     string `json:"subject"`
	TaskCount   int    `json:"task_count"`
	GeneratedAt string `json:"generated_at"`
}

// JSONL writes one JSON Lines artifact per subject: a metadata record
// followed by one record per task.
type JSONL struct {
	dir    string
	runID  string
	logger *slog.Logger
}

// JSONLConfig configures a JSONL writer.
type JSONLConfig struct {
	Dir    string
	RunID  string // defaults to a fresh UUID
	Logger *slog.Logger
}

// NewJSONL creates the output directory and returns a writer bound to it.
func NewJSONL(cfg JSONLConfig) (*JSONL, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output folder: %w", err)
	}
	runID := cfg.RunID
	if runID == "" {
		runID = uuid.New().String()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONL{dir: cfg.Dir, runID: runID, logger: logger}, nil
}

// RunID returns the identifier stamped on every artifact of this run.
func (w *JSONL) RunID() string {
	return w.runID
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Write persists the subject's tasks to NNN_<subject>_tasks.jsonl.
func (w *JSONL) Write(subject string, tasks []types.Task, seq int) (string, error) {
	name := unsafeChars.ReplaceAllString(strings.TrimSpace(subject), "_")
	path := filepath.Join(w.dir, fmt.Sprintf("%03d_%s_tasks.jsonl", seq, name))

	var b strings.Builder
	enc := json.NewEncoder(&b)

	meta := metadata{
		RunID:       w.runID,
		Subject:     subject,
		TaskCount:   len(tasks),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("failed to encode artifact metadata: %w", err)
	}
	for _, t := range tasks {
		if err := enc.Encode(t); err != nil {
			return "", fmt.Errorf("failed to encode task record: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	w.logger.Debug("wrote artifact", "path", path, "tasks", len(tasks))
	return path, nil
}

var _ Writer = (*JSONL)(nil)
