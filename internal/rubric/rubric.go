// Package rubric loads and validates the two config/ documents the evaluator reads
// before it can evaluate anything: the rubric config (the
// test_case_rules.json) and the requirement knowledge base
// (require_list_config.json). Both are validated against an embedded JSON
// Schema with github.com/santhosh-tekuri/jsonschema/v5 before use, grounded
// directly on pluginsdk.ValidateConfig's compile-and-validate pattern —
// catching a malformed rubric at load time with a field-naming
// InputMalformed error is cheaper than failing deep inside a batch.
package rubric

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"issuelens/internal/errs"
	"issuelens/internal/filestore"
)

// PriorityRange is one priority label's target percentage window.
type PriorityRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Config is the persisted rubric (config/test_case_rules.json).
type Config struct {
	TitleMaxLength int                      `json:"title_max_length"`
	MaxSteps       int                      `json:"max_steps"`
	PriorityRatios map[string]PriorityRange `json:"priority_ratios"`
	Version        string                   `json:"version"`
	LastUpdated    string                   `json:"last_updated"`
}

// DefaultConfig is used when no rubric file exists yet, so an evaluation
// run against a fresh checkout scores against these targets rather than
// a zero-valued rubric silently accepting anything.
func DefaultConfig() Config {
	return Config{
		TitleMaxLength: 60,
		MaxSteps:       10,
		PriorityRatios: map[string]PriorityRange{
			"P0": {Min: 10, Max: 20},
			"P1": {Min: 50, Max: 70},
			"P2": {Min: 10, Max: 30},
		},
		Version: "1.0.0",
	}
}

// RequirementEntry is one requirement knowledge-base entry.
type RequirementEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	AddedAt     string `json:"local_created_time"`
}

type requirementsWire struct {
	Requirements []RequirementEntry `json:"requirements"`
}

// LoadConfig reads and schema-validates the rubric at path. A missing file
// is not fatal: DefaultConfig is returned so the CLI can still run with a
// sensible default, matching filestore.LoadJSON's missing-file convention; a
// malformed file fails with InputMalformed naming the schema violation.
func LoadConfig(path string) (Config, error) {
	var raw json.RawMessage
	if err := filestore.LoadJSON(path, &raw); err != nil {
		return Config{}, err
	}
	if len(raw) == 0 {
		return DefaultConfig(), nil
	}
	if err := validate(configSchema(), raw); err != nil {
		return Config{}, errs.InputMalformed(path, "priority_ratios", err)
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errs.InputMalformed(path, "<root>", err)
	}
	return cfg, nil
}

// LoadRequirements reads and schema-validates the requirement knowledge
// base at path. A missing file returns an empty list, not an error — a
// fresh project may run evaluations before any requirement has been
// recorded.
func LoadRequirements(path string) ([]RequirementEntry, error) {
	var raw json.RawMessage
	if err := filestore.LoadJSON(path, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	if err := validate(requirementsSchema(), raw); err != nil {
		return nil, errs.InputMalformed(path, "requirements", err)
	}
	var w requirementsWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, errs.InputMalformed(path, "<root>", err)
	}
	return w.Requirements, nil
}

func validate(schema *jsonschema.Schema, raw json.RawMessage) error {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	return schema.Validate(decoded)
}

const configSchemaSrc = `{
  "type": "object",
  "properties": {
    "title_max_length": {"type": "integer"},
    "max_steps": {"type": "integer"},
    "priority_ratios": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "min": {"type": "integer"},
          "max": {"type": "integer"}
        },
        "required": ["min", "max"]
      }
    },
    "version": {"type": "string"},
    "last_updated": {"type": "string"}
  }
}`

const requirementsSchemaSrc = `{
  "type": "object",
  "properties": {
    "requirements": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "title": {"type": "string"},
          "description": {"type": "string"},
          "priority": {"type": "string"},
          "local_created_time": {"type": "string"}
        },
        "required": ["id"]
      }
    }
  }
}`

var (
	configSchemaOnce sync.Once
	configSchemaVal  *jsonschema.Schema

	requirementsSchemaOnce sync.Once
	requirementsSchemaVal  *jsonschema.Schema
)

func configSchema() *jsonschema.Schema {
	configSchemaOnce.Do(func() {
		configSchemaVal = mustCompile("test_case_rules.schema.json", configSchemaSrc)
	})
	return configSchemaVal
}

func requirementsSchema() *jsonschema.Schema {
	requirementsSchemaOnce.Do(func() {
		requirementsSchemaVal = mustCompile("require_list_config.schema.json", requirementsSchemaSrc)
	})
	return requirementsSchemaVal
}

func mustCompile(name, src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(src)); err != nil {
		panic(fmt.Sprintf("rubric: embedded schema %s failed to compile: %v", name, err))
	}
	s, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("rubric: embedded schema %s failed to compile: %v", name, err))
	}
	return s
}
