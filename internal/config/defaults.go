package config

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageCfg{
			InputFolder:  "./documents",
			OutputFolder: "./datasets",
		},
		TaskGeneration: TaskGenerationCfg{
			BatchSize:            10,
			MinTasksPerSubject:   20,
			MaxTasksPerSubject:   100,
			QualityThreshold:     0.5,
			MaxStalledIterations: 5,
			MaxChunkChars:        1000,
		},
		BiasDetection: BiasDetectionCfg{
			Threshold:                 0.2,
			MaxRebalancingAttempts:    5,
			MinTasksBeforeRebalancing: 10,
		},
		ParallelProcessing: ParallelProcessingCfg{
			Enabled:    true,
			NumWorkers: 4,
			ResourceLimits: ResourceLimitsCfg{
				MaxMemoryMB:   0,
				MaxCPUPercent: 0,
			},
		},
		SubjectExtraction: SubjectExtractionCfg{
			Keywords: []KeywordEntry{
				{Domain: "Finance", Keywords: []string{"bank", "invoice", "payment", "budget", "revenue"}},
				{Domain: "IT", Keywords: []string{"software", "server", "network", "code", "database"}},
				{Domain: "Legal", Keywords: []string{"contract", "clause", "liability", "compliance"}},
			},
		},
		Summarization: SummarizationCfg{
			Enabled:        true,
			Model:          "gpt-4o-mini",
			APIKey:         "${OPENAI_API_KEY}",
			MaxRetries:     2,
			TimeoutSeconds: 60,
			MaxTokens:      120,
		},
	}
}
