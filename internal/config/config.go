// Package config resolves project-relative paths, bootstraps the data
// directories issuelens needs, and loads the issuelens.yaml configuration
// file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// markerFile is the anchor issuelens walks upward from to find the project
// root: the directory that contains go.mod is the root.
const markerFile = "go.mod"

// Config holds all issuelens configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	LLM       LLMConfig       `yaml:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Index     IndexConfig     `yaml:"index"`
	Tokens    TokenConfig     `yaml:"tokens"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// IndexConfig configures the vector index build.
type IndexConfig struct {
	ChunkSize int `yaml:"chunk_size"` // records per chunk, default 10
}

// TokenConfig configures the LLM batching budgets.
type TokenConfig struct {
	OverviewBudget   int `yaml:"overview_budget"`   // overview default 12000
	EvaluatorWindow  int `yaml:"evaluator_window"`  // evaluator default 12000
	OverviewResponse int `yaml:"overview_response"` // not read by internal/overview, which reserves a fixed 600 response tokens
}

// DefaultConfig returns sensible defaults for a fresh project.
func DefaultConfig() *Config {
	return &Config{
		Name:    "issuelens",
		Version: "1.0.0",
		LLM:     DefaultLLMConfig(),
		Embedding: EmbeddingConfig{
			Provider:       "ollama",
			OllamaEndpoint: "http://localhost:11434",
			OllamaModel:    "embeddinggemma",
			GenAIModel:     "gemini-embedding-001",
			TaskType:       "SEMANTIC_SIMILARITY",
		},
		Index: IndexConfig{
			ChunkSize: 10,
		},
		Tokens: TokenConfig{
			OverviewBudget:   12000,
			EvaluatorWindow:  12000,
			OverviewResponse: 800,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			DebugMode: false,
		},
	}
}

// Load reads config/issuelens.yaml relative to the project root. A missing
// file is not an error: defaults are returned instead.
func Load(p *Paths) (*Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(p.ConfigDir(), "issuelens.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.LLM.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.LLM.applyEnvOverrides()
	return cfg, nil
}

// Paths resolves project-relative paths and creates required directories.
type Paths struct {
	Root string
}

// DiscoverPaths walks upward from the current working directory until it
// finds the marker file (go.mod), establishing the project root. If no
// marker is found, the starting directory itself is used as the root.
func DiscoverPaths() (*Paths, error) {
	start, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: getwd: %w", err)
	}
	return DiscoverPathsFrom(start)
}

// DiscoverPathsFrom is DiscoverPaths with an explicit starting directory,
// useful for tests.
func DiscoverPathsFrom(start string) (*Paths, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, markerFile)); err == nil {
			return &Paths{Root: dir}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// No marker found anywhere up the tree; treat the start dir as root.
			return &Paths{Root: start}, nil
		}
		dir = parent
	}
}

// EnsureDirs creates local_data/, local_data/vector_data/,
// local_data/time_trend/, local_data/logs/, and models/ if missing.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{
		p.DataDir(),
		p.VectorDataDir(),
		p.TimeTrendDir(),
		p.LogsDir(),
		p.ModelsDir(),
	} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("config: mkdir %s: %w", d, err)
		}
	}
	return nil
}

// DataDir returns the local_data/ directory.
func (p *Paths) DataDir() string { return filepath.Join(p.Root, "local_data") }

// VectorDataDir returns local_data/vector_data/.
func (p *Paths) VectorDataDir() string { return filepath.Join(p.DataDir(), "vector_data") }

// TimeTrendDir returns local_data/time_trend/.
func (p *Paths) TimeTrendDir() string { return filepath.Join(p.DataDir(), "time_trend") }

// LogsDir returns local_data/logs/.
func (p *Paths) LogsDir() string { return filepath.Join(p.DataDir(), "logs") }

// ModelsDir returns models/.
func (p *Paths) ModelsDir() string { return filepath.Join(p.Root, "models") }

// ConfigDir returns config/.
func (p *Paths) ConfigDir() string { return filepath.Join(p.Root, "config") }

// DataFile resolves a relative path against the project root. An absolute
// path is returned unchanged.
func (p *Paths) DataFile(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Root, rel)
}

// VectorIndexBase returns the base path (no extension) for a named vector
// index's sidecar files: local_data/vector_data/<name>.
func (p *Paths) VectorIndexBase(name string) string {
	return filepath.Join(p.VectorDataDir(), name)
}

// RubricPath returns config/test_case_rules.json.
func (p *Paths) RubricPath() string {
	return filepath.Join(p.ConfigDir(), "test_case_rules.json")
}

// RequirementKBPath returns config/require_list_config.json.
func (p *Paths) RequirementKBPath() string {
	return filepath.Join(p.ConfigDir(), "require_list_config.json")
}
