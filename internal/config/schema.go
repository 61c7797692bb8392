package config

import "github.com/jackzampolin/taskmill/internal/classify"

// Config holds taskmill configuration.
// Loaded from: ./config.yaml, ~/.taskmill/config.yaml, or --config.
type Config struct {
	Storage            StorageCfg            `mapstructure:"storage" yaml:"storage"`
	TaskGeneration     TaskGenerationCfg     `mapstructure:"task_generation" yaml:"task_generation"`
	BiasDetection      BiasDetectionCfg      `mapstructure:"bias_detection" yaml:"bias_detection"`
	ParallelProcessing ParallelProcessingCfg `mapstructure:"parallel_processing" yaml:"parallel_processing"`
	SubjectExtraction  SubjectExtractionCfg  `mapstructure:"subject_extraction" yaml:"subject_extraction"`
	Summarization      SummarizationCfg      `mapstructure:"summarization" yaml:"summarization"`
}

// StorageCfg locates input documents and output artifacts.
type StorageCfg struct {
	InputFolder  string `mapstructure:"input_folder" yaml:"input_folder"`
	OutputFolder string `mapstructure:"output_folder" yaml:"output_folder"`
}

// TaskGenerationCfg bounds the per-subject generation loop.
type TaskGenerationCfg struct {
	BatchSize            int     `mapstructure:"batch_size" yaml:"batch_size"`
	MinTasksPerSubject   int     `mapstructure:"min_tasks_per_subject" yaml:"min_tasks_per_subject"`
	MaxTasksPerSubject   int     `mapstructure:"max_tasks_per_subject" yaml:"max_tasks_per_subject"`
	QualityThreshold     float64 `mapstructure:"quality_threshold" yaml:"quality_threshold"`
	MaxStalledIterations int     `mapstructure:"max_stalled_iterations" yaml:"max_stalled_iterations"`
	MaxChunkChars        int     `mapstructure:"max_chunk_chars" yaml:"max_chunk_chars"`
}

// BiasDetectionCfg gates domain over-representation corrections.
type BiasDetectionCfg struct {
	Threshold                 float64 `mapstructure:"threshold" yaml:"threshold"`
	MaxRebalancingAttempts    int     `mapstructure:"max_rebalancing_attempts" yaml:"max_rebalancing_attempts"`
	MinTasksBeforeRebalancing int     `mapstructure:"min_tasks_before_rebalancing" yaml:"min_tasks_before_rebalancing"`
}

// ParallelProcessingCfg controls ingestion concurrency and resource ceilings.
type ParallelProcessingCfg struct {
	Enabled        bool              `mapstructure:"enabled" yaml:"enabled"`
	NumWorkers     int               `mapstructure:"num_workers" yaml:"num_workers"`
	ResourceLimits ResourceLimitsCfg `mapstructure:"resource_limits" yaml:"resource_limits"`
}

// ResourceLimitsCfg sets governor ceilings. Zero disables a check.
type ResourceLimitsCfg struct {
	MaxMemoryMB   float64 `mapstructure:"max_memory_mb" yaml:"max_memory_mb"`
	MaxCPUPercent float64 `mapstructure:"max_cpu_percent" yaml:"max_cpu_percent"`
}

// SubjectExtractionCfg supplies the domain keyword table.
// Keywords is an ordered list, not a mapping: classifier tie-breaks follow
// entry order, and YAML mappings would not round-trip order through viper.
type SubjectExtractionCfg struct {
	Keywords []KeywordEntry `mapstructure:"keywords" yaml:"keywords"`
}

// KeywordEntry binds one domain to its keyword list.
type KeywordEntry struct {
	Domain   string   `mapstructure:"domain" yaml:"domain"`
	Keywords []string `mapstructure:"keywords" yaml:"keywords"`
}

// SummarizationCfg configures the external summarizer collaborator.
// Opaque to the core: the generation loop only sees the Summarizer interface.
type SummarizationCfg struct {
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
	Model          string `mapstructure:"model" yaml:"model"`
	APIKey         string `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR} syntax
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	MaxRetries     int    `mapstructure:"max_retries" yaml:"max_retries"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxTokens      int    `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// KeywordTable converts the configured entries into the classifier's table,
// preserving order.
func (c *Config) KeywordTable() classify.KeywordTable {
	table := make(classify.KeywordTable, 0, len(c.SubjectExtraction.Keywords))
	for _, entry := range c.SubjectExtraction.Keywords {
		table = append(table, classify.DomainKeywords{
			Domain:   entry.Domain,
			Keywords: entry.Keywords,
		})
	}
	return table
}
