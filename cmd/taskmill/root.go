package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/taskmill/version"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "taskmill",
	Short: "Synthesizes balanced fine-tuning task datasets from document folders",
	Long: `Taskmill ingests a folder of documents, synthesizes labeled task records
describing content snippets, and emits per-subject balanced datasets for
downstream model fine-tuning.

The pipeline includes:
  - Concurrent text extraction from PDF, DOCX, and plain-text files
  - Chunking, keyword-based domain classification, and quality scoring
  - Iterative detection and correction of domain over-representation
  - Resource-governed execution with memory and CPU ceilings`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.taskmill/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn, error",
	)

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the run logger from the --log-level flag.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
