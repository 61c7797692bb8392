package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	yamlv3 "gopkg.in/yaml.v3"
)

// configSchema constrains the shape of a config file. Structural errors
// surface here with schema paths instead of as zero-valued fields later.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "storage": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "input_folder": {"type": "string"},
        "output_folder": {"type": "string"}
      }
    },
    "task_generation": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "batch_size": {"type": "integer", "minimum": 1},
        "min_tasks_per_subject": {"type": "integer", "minimum": 0},
        "max_tasks_per_subject": {"type": "integer", "minimum": 1},
        "quality_threshold": {"type": "number", "minimum": 0, "maximum": 1},
        "max_stalled_iterations": {"type": "integer", "minimum": 1},
        "max_chunk_chars": {"type": "integer", "minimum": 1}
      }
    },
    "bias_detection": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "threshold": {"type": "number", "minimum": 0},
        "max_rebalancing_attempts": {"type": "integer", "minimum": 0},
        "min_tasks_before_rebalancing": {"type": "integer", "minimum": 0}
      }
    },
    "parallel_processing": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "enabled": {"type": "boolean"},
        "num_workers": {"type": "integer", "minimum": 1},
        "resource_limits": {
          "type": "object",
          "additionalProperties": false,
          "properties": {
            "max_memory_mb": {"type": "number", "minimum": 0},
            "max_cpu_percent": {"type": "number", "minimum": 0, "maximum": 100}
          }
        }
      }
    },
    "subject_extraction": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "keywords": {
          "type": "array",
          "items": {
            "type": "object",
            "additionalProperties": false,
            "required": ["domain", "keywords"],
            "properties": {
              "domain": {"type": "string", "minLength": 1},
              "keywords": {"type": "array", "items": {"type": "string"}}
            }
          }
        }
      }
    },
    "summarization": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "enabled": {"type": "boolean"},
        "model": {"type": "string"},
        "api_key": {"type": "string"},
        "base_url": {"type": "string"},
        "max_retries": {"type": "integer", "minimum": 0},
        "timeout_seconds": {"type": "integer", "minimum": 1},
        "max_tokens": {"type": "integer", "minimum": 1}
      }
    }
  }
}`

// ValidateFile checks a YAML config file against the embedded schema.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return validateYAML(data)
}

// validateYAML round-trips the YAML document through JSON so the schema
// validator sees the value types json.Unmarshal would produce.
func validateYAML(data []byte) error {
	var doc any
	if err := yamlv3.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if doc == nil {
		return nil
	}

	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to normalize config document: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(jsonBytes, &normalized); err != nil {
		return fmt.Errorf("failed to normalize config document: %w", err)
	}

	schema, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return fmt.Errorf("failed to compile config schema: %w", err)
	}
	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("config file failed schema validation: %w", err)
	}
	return nil
}
