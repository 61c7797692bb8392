package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TaskGeneration.BatchSize <= 0 {
		t.Error("default batch_size must be positive")
	}
	if cfg.TaskGeneration.MaxTasksPerSubject < cfg.TaskGeneration.MinTasksPerSubject {
		t.Error("default max_tasks_per_subject below min_tasks_per_subject")
	}
	if cfg.TaskGeneration.QualityThreshold < 0 || cfg.TaskGeneration.QualityThreshold > 1 {
		t.Errorf("default quality_threshold %v outside [0,1]", cfg.TaskGeneration.QualityThreshold)
	}
	if len(cfg.SubjectExtraction.Keywords) == 0 {
		t.Error("default keyword table is empty")
	}
	if err := checkBounds(cfg); err != nil {
		t.Errorf("default config fails bounds check: %v", err)
	}
}

func TestKeywordTablePreservesOrder(t *testing.T) {
	cfg := &Config{
		SubjectExtraction: SubjectExtractionCfg{
			Keywords: []KeywordEntry{
				{Domain: "Zeta", Keywords: []string{"z"}},
				{Domain: "Alpha", Keywords: []string{"a"}},
				{Domain: "Mid", Keywords: []string{"m"}},
			},
		},
	}

	table := cfg.KeywordTable()
	want := []string{"Zeta", "Alpha", "Mid"}
	got := table.Domains()
	if len(got) != len(want) {
		t.Fatalf("domain count: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("domain %d: got %q, want %q (order must survive conversion)", i, got[i], want[i])
		}
	}
}

func TestCheckBounds(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults pass",
			mutate: func(*Config) {},
		},
		{
			name: "max below min",
			mutate: func(c *Config) {
				c.TaskGeneration.MinTasksPerSubject = 50
				c.TaskGeneration.MaxTasksPerSubject = 10
			},
			wantErr: true,
		},
		{
			name: "quality threshold above one",
			mutate: func(c *Config) {
				c.TaskGeneration.QualityThreshold = 1.5
			},
			wantErr: true,
		},
		{
			name: "negative bias threshold",
			mutate: func(c *Config) {
				c.BiasDetection.Threshold = -0.1
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := checkBounds(cfg)
			if tt.wantErr && err == nil {
				t.Error("expected bounds error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected bounds error: %v", err)
			}
		})
	}
}

func TestValidateYAML(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{
			name: "valid config",
			yaml: `
storage:
  input_folder: ./docs
task_generation:
  batch_size: 5
  quality_threshold: 0.7
subject_extraction:
  keywords:
    - domain: Finance
      keywords: [bank, invoice]
`,
		},
		{
			name: "unknown top-level key",
			yaml: `
storag:
  input_folder: ./docs
`,
			wantErr: true,
		},
		{
			name: "wrong type for batch_size",
			yaml: `
task_generation:
  batch_size: lots
`,
			wantErr: true,
		},
		{
			name: "quality threshold out of range",
			yaml: `
task_generation:
  quality_threshold: 2.0
`,
			wantErr: true,
		},
		{
			name: "keyword entry missing domain",
			yaml: `
subject_extraction:
  keywords:
    - keywords: [bank]
`,
			wantErr: true,
		},
		{
			name: "empty document",
			yaml: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateYAML([]byte(tt.yaml))
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# taskmill configuration") {
		t.Error("default config missing header comment")
	}

	// The file WriteDefault produces must satisfy its own schema.
	if err := ValidateFile(path); err != nil {
		t.Errorf("default config fails schema validation: %v", err)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("TASKMILL_TEST_KEY", "secret")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TASKMILL_TEST_KEY}", "secret"},
		{"prefix-${TASKMILL_TEST_KEY}-suffix", "prefix-secret-suffix"},
		{"no vars here", "no vars here"},
		{"${UNSET_TASKMILL_VAR}", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ResolveEnvVars(tt.input); got != tt.expected {
			t.Errorf("ResolveEnvVars(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
