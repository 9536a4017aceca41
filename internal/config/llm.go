package config

import "os"

// LLMConfig holds the default LLM endpoint/model, overridable by the
// environment variables at read time. Provider selection itself happens in
// internal/apiclient by inspecting the endpoint substring; this
// struct only supplies the defaults and DS_* overrides.
type LLMConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	MaxTokens      int    `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// DefaultLLMConfig returns the provider-B (deepseek) defaults.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Endpoint:       "https://api.deepseek.com/v1",
		Model:          "deepseek-chat",
		MaxTokens:      4096,
		TimeoutSeconds: 300,
	}
}

// applyEnvOverrides applies DS_EP/DS_MODEL. SF_KEY and DS_KEY are
// read directly by internal/apiclient at call time, not cached here, so a
// key rotated mid-process takes effect on the next call.
func (c *LLMConfig) applyEnvOverrides() {
	if v := os.Getenv("DS_EP"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("DS_MODEL"); v != "" {
		c.Model = v
	}
}
