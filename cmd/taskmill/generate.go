package main

import (
	"errors"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/taskmill/internal/config"
	"github.com/jackzampolin/taskmill/internal/governor"
	"github.com/jackzampolin/taskmill/internal/pipeline"
	"github.com/jackzampolin/taskmill/internal/runctx"
	"github.com/jackzampolin/taskmill/internal/summarize"
	"github.com/jackzampolin/taskmill/internal/writer"
)

var (
	summarizeFlag bool
	seedFlag      int64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate per-subject task datasets from the input folder",
	Long: `Generate runs the full pipeline: extract text from every supported
document in storage.input_folder, merge it into subjects, synthesize
quality-filtered task records, rebalance domain over-representation, and
write one dataset artifact per subject to storage.output_folder.

Examples:
  taskmill generate --config config.yaml
  taskmill generate --summarize=false     # skip the summarization model
  taskmill generate --seed 42             # reproducible chunk sampling`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			logger.Error("failed to load configuration", "error", err)
			return err
		}
		cfg := cm.Get()

		// --summarize only selects the external summarizer collaborator;
		// the generation loop is unaffected.
		var summarizer summarize.Summarizer = summarize.Noop{}
		if summarizeFlag && cfg.Summarization.Enabled {
			summarizer = summarize.NewOpenAIClient(summarize.OpenAIConfig{
				APIKey:     config.ResolveEnvVars(cfg.Summarization.APIKey),
				Model:      cfg.Summarization.Model,
				BaseURL:    cfg.Summarization.BaseURL,
				MaxRetries: cfg.Summarization.MaxRetries,
				MaxTokens:  cfg.Summarization.MaxTokens,
				Timeout:    time.Duration(cfg.Summarization.TimeoutSeconds) * time.Second,
			})
		}

		seed := seedFlag
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		out, err := writer.NewJSONL(writer.JSONLConfig{
			Dir:    cfg.Storage.OutputFolder,
			Logger: logger,
		})
		if err != nil {
			logger.Error("failed to prepare output folder", "error", err)
			return err
		}

		logger.Info("starting run", "run_id", out.RunID(), "seed", seed)

		svcs := &runctx.Services{
			Config: cfg,
			Logger: logger,
			Rng:    rand.New(rand.NewSource(seed)),
			Governor: governor.New(governor.Config{
				MaxMemoryMB:   cfg.ParallelProcessing.ResourceLimits.MaxMemoryMB,
				MaxCPUPercent: cfg.ParallelProcessing.ResourceLimits.MaxCPUPercent,
				Logger:        logger,
			}),
			Summarizer: summarizer,
			Writer:     out,
		}

		result, err := pipeline.Run(runctx.WithServices(ctx, svcs))
		if err != nil {
			var breach *governor.BreachError
			switch {
			case errors.As(err, &breach):
				logger.Error("run aborted by resource governor",
					"kind", breach.Kind, "observed", breach.Observed, "limit", breach.Limit)
			case errors.Is(err, pipeline.ErrNoInputFiles):
				logger.Error("nothing to process", "error", err)
			default:
				logger.Error("run failed", "error", err)
			}
			return err
		}

		logger.Info("run complete",
			"run_id", out.RunID(),
			"subjects", result.Subjects,
			"tasks_written", result.TasksWritten,
			"rebalances", result.Rebalances,
			"artifacts", len(result.Artifacts),
		)
		return nil
	},
}

func init() {
	generateCmd.Flags().BoolVar(
		&summarizeFlag, "summarize", true, "summarize chunks with the configured model before task synthesis",
	)
	generateCmd.Flags().Int64Var(
		&seedFlag, "seed", 0, "random seed for chunk sampling (0 uses the current time)",
	)

	rootCmd.AddCommand(generateCmd)
}
