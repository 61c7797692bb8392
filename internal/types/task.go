// Package types provides shared types used across multiple packages.
// This package has no dependencies on other taskmill packages to avoid import cycles.
package types

// ExecutionMode indicates how a generated task should be carried out downstream.
type ExecutionMode string

const (
	// ExecutionAutomated indicates the task is suitable for automated analysis.
	ExecutionAutomated ExecutionMode = "automated analysis"
	// ExecutionManual indicates the task should be reviewed by a human.
	ExecutionManual ExecutionMode = "manual review"
)

// Task is a synthesized record describing a content snippet.
// Tasks are immutable once accepted; rebalancing removes tasks, never mutates them.
type Task struct {
	Description          string        `json:"description"`
	Domain               string        `json:"domain"`
	RecommendedExecution ExecutionMode `json:"recommended_execution"`
	QualityScore         float64       `json:"quality_score"`
}
