// Package generator implements the task-generation and bias-rebalancing
// engine: it samples content chunks, synthesizes labeled task records, and
// iteratively corrects domain over-representation, bounded by task-count,
// rebalancing-attempt, and resource limits.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/jackzampolin/taskmill/internal/classify"
	"github.com/jackzampolin/taskmill/internal/governor"
	"github.com/jackzampolin/taskmill/internal/quality"
	"github.com/jackzampolin/taskmill/internal/summarize"
	"github.com/jackzampolin/taskmill/internal/types"
)

const (
	// descriptionPrefixLen is the fixed-length chunk prefix embedded in the
	// task description template.
	descriptionPrefixLen = 50

	// automatedExecutionCutoff is the chunk length above which a task is
	// recommended for automated analysis instead of manual review.
	automatedExecutionCutoff = 100
)

// Config bounds a generation run.
type Config struct {
	BatchSize        int     // tasks attempted per iteration
	MinTasks         int     // loop lower bound per subject
	MaxTasks         int     // hard upper bound per subject
	QualityThreshold float64 // minimum accepted quality score

	BiasThreshold             float64 // allowed fractional over-representation
	MaxRebalancingAttempts    int
	MinTasksBeforeRebalancing int

	// MaxStalledIterations stops the loop after this many consecutive
	// iterations that accepted zero tasks, so a quality threshold that
	// filters every candidate cannot spin forever. Default: 5.
	MaxStalledIterations int
}

// Generator produces a balanced task list for one subject's chunk pool.
type Generator struct {
	cfg        Config
	table      classify.KeywordTable
	summarizer summarize.Summarizer
	gov        *governor.Governor
	logger     *slog.Logger
	rng        *rand.Rand
}

// Deps carries the generator's collaborators. Logger and Rng are explicit
// so runs are reproducible without process-wide state.
type Deps struct {
	Table      classify.KeywordTable
	Summarizer summarize.Summarizer
	Governor   *governor.Governor
	Logger     *slog.Logger
	Rng        *rand.Rand
}

// Outcome is the terminal state of a generation run.
type Outcome struct {
	Tasks              []types.Task
	DomainDistribution map[string]int
	Iterations         int
	Rebalances         int
	Truncated          bool // MaxTasks hit
	Stalled            bool // stopped by the no-progress bound
}

// New creates a Generator.
func New(cfg Config, deps Deps) *Generator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	summarizer := deps.Summarizer
	if summarizer == nil {
		summarizer = summarize.Noop{}
	}
	gov := deps.Governor
	if gov == nil {
		gov = governor.New(governor.Config{Logger: logger})
	}
	rng := deps.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if cfg.MaxStalledIterations <= 0 {
		cfg.MaxStalledIterations = 5
	}
	return &Generator{
		cfg:        cfg,
		table:      deps.Table,
		summarizer: summarizer,
		gov:        gov,
		logger:     logger,
		rng:        rng,
	}
}

// state is the per-run mutable generation state. The distribution mirrors
// the task list at all times: after every rebalancing recomputation,
// dist[d] equals the number of tasks labeled d.
type state struct {
	tasks      []types.Task
	dist       map[string]int
	rebalances int
	iterations int
	stalled    int
}

// Run executes the generation loop over the subject's chunk pool. The pool
// is read-only and sampled with replacement. Fatal conditions (resource
// breach, bias-attempt exhaustion) return an error with no partial result.
func (g *Generator) Run(ctx context.Context, chunks []string) (*Outcome, error) {
	st := &state{dist: make(map[string]int)}

	for len(st.tasks) < g.cfg.MinTasks {
		st.iterations++

		accepted := g.produceBatch(ctx, chunks, st)
		if accepted == 0 {
			st.stalled++
		} else {
			st.stalled = 0
		}

		if g.rebalance(st) {
			g.logger.Debug("rebalanced domain distribution",
				"rebalances", st.rebalances, "tasks", len(st.tasks))
		}

		if st.rebalances > g.cfg.MaxRebalancingAttempts && len(st.tasks) < g.cfg.MinTasksBeforeRebalancing {
			return nil, &BiasExhaustedError{
				Attempts:    st.rebalances,
				Tasks:       len(st.tasks),
				MinRequired: g.cfg.MinTasksBeforeRebalancing,
			}
		}

		if err := g.gov.Check(ctx); err != nil {
			return nil, fmt.Errorf("generation aborted: %w", err)
		}

		if len(st.tasks) >= g.cfg.MaxTasks {
			st.tasks = st.tasks[:g.cfg.MaxTasks]
			st.recomputeDist()
			return g.outcome(st, true), nil
		}

		if len(chunks) == 0 {
			break
		}

		if st.stalled >= g.cfg.MaxStalledIterations {
			g.logger.Warn("no accepted tasks for consecutive iterations, stopping",
				"iterations", st.stalled, "tasks", len(st.tasks))
			return g.stalledOutcome(st), nil
		}
	}

	return g.outcome(st, false), nil
}

// produceBatch draws BatchSize samples from the pool, synthesizes a task
// for each, and keeps those meeting the quality threshold. Returns the
// number of accepted tasks.
func (g *Generator) produceBatch(ctx context.Context, chunks []string, st *state) int {
	accepted := 0

	for i := 0; i < g.cfg.BatchSize; i++ {
		if len(chunks) == 0 {
			break
		}
		chunk := chunks[g.rng.Intn(len(chunks))]

		working := chunk
		if summary, err := g.summarizer.Summarize(ctx, chunk); err != nil {
			g.logger.Warn("summarization failed, using original chunk", "error", err)
		} else {
			working = summary
		}

		task := types.Task{
			Description:          describeSnippet(working),
			RecommendedExecution: types.ExecutionManual,
		}
		if len(working) > automatedExecutionCutoff {
			task.RecommendedExecution = types.ExecutionAutomated
		}
		task.Domain = classify.Classify(task.Description, g.table)
		// Scoring rates the snippet itself, not the templated description:
		// the template's fixed wording would mask short or repetitive content.
		task.QualityScore = quality.Score(working)

		if task.QualityScore < g.cfg.QualityThreshold {
			continue
		}

		st.tasks = append(st.tasks, task)
		st.dist[task.Domain]++
		accepted++
	}

	return accepted
}

// rebalance scans domains in table order and corrects the first one whose
// count exceeds the allowed share. At most one correction per call, even
// when several domains are simultaneously over-represented. Reports
// whether a correction was applied.
func (g *Generator) rebalance(st *state) bool {
	total := len(st.tasks)
	// +1 keeps the share defined when no domains are configured.
	expectedShare := float64(total) / float64(len(g.table)+1)
	limit := expectedShare * (1 + g.cfg.BiasThreshold)

	for _, entry := range g.table {
		if float64(st.dist[entry.Domain]) <= limit {
			continue
		}

		allowed := int(math.Floor(limit))
		kept := make([]types.Task, 0, len(st.tasks))
		remaining := allowed
		for _, t := range st.tasks {
			if t.Domain == entry.Domain {
				if remaining == 0 {
					continue
				}
				remaining--
			}
			kept = append(kept, t)
		}

		st.tasks = kept
		st.recomputeDist()
		st.rebalances++
		return true
	}

	return false
}

// recomputeDist rebuilds the domain distribution from the task list.
func (st *state) recomputeDist() {
	st.dist = make(map[string]int, len(st.dist))
	for _, t := range st.tasks {
		st.dist[t.Domain]++
	}
}

func (g *Generator) outcome(st *state, truncated bool) *Outcome {
	return &Outcome{
		Tasks:              st.tasks,
		DomainDistribution: st.dist,
		Iterations:         st.iterations,
		Rebalances:         st.rebalances,
		Truncated:          truncated,
	}
}

func (g *Generator) stalledOutcome(st *state) *Outcome {
	out := g.outcome(st, false)
	out.Stalled = true
	return out
}

// describeSnippet builds a task description from the fixed template over a
// fixed-length chunk prefix.
func describeSnippet(chunk string) string {
	prefix := chunk
	if runes := []rune(chunk); len(runes) > descriptionPrefixLen {
		prefix = string(runes[:descriptionPrefixLen])
	}
	return fmt.Sprintf("Review content snippet: '%s...'", prefix)
}
