// Package apiclient implements a single chat-completions client against
// one of two OpenAI-compatible providers, auto-detected from the endpoint.
// It is a hand-rolled net/http client grounded directly on
// internal/perception/client.go's ZAIClient, which never reaches for an
// SDK for its own provider clients, so neither does this package — but it
// wires github.com/sashabaranov/go-openai's request/response message
// types (pack-grounded via haasonsaas-nexus's provider clients) rather than
// hand-rolling the wire schema from scratch.
package apiclient

import "strings"

// Provider identifies which of the two supported endpoints a call targets.
type Provider struct {
	Name         string
	DefaultModel string
	EnvVar       string
	ExtraFields  bool // true for provider-A: adds temperature/top_p
}

var (
	providerSiliconflow = Provider{
		Name:         "siliconflow",
		DefaultModel: "moonshotai/Kimi-K2-Instruct",
		EnvVar:       "SF_KEY",
		ExtraFields:  true,
	}
	providerDeepseek = Provider{
		Name:         "deepseek",
		DefaultModel: "deepseek-chat",
		EnvVar:       "DS_KEY",
		ExtraFields:  false,
	}
)

// DetectProvider classifies an endpoint: any endpoint
// containing "siliconflow" is provider-A, everything else (including the
// empty string, which resolves to the default endpoint) is provider-B.
func DetectProvider(endpoint string) Provider {
	if strings.Contains(endpoint, "siliconflow") {
		return providerSiliconflow
	}
	return providerDeepseek
}
