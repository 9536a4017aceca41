package config

// EmbeddingConfig selects and configures the embedding model cache backend. It
// mirrors internal/embedding.Config's shape but lives in this package so
// config.Load has no dependency on the embedding package.
type EmbeddingConfig struct {
	Provider       string `yaml:"provider"` // "ollama" or "genai"
	OllamaEndpoint string `yaml:"ollama_endpoint"`
	OllamaModel    string `yaml:"ollama_model"`
	GenAIModel     string `yaml:"genai_model"`
	TaskType       string `yaml:"task_type"`
}
