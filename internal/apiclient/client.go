package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"issuelens/internal/errs"
	"issuelens/internal/logging"
)

// DefaultTimeout is the per-call wall-clock budget (default 300s).
const DefaultTimeout = 300 * time.Second

const DefaultEndpoint = "https://api.deepseek.com/v1"

// Client is a single chat-completions client shared across overview and evaluator.
// It does not retry; retry policy is the caller's responsibility.
type Client struct {
	httpClient *http.Client
}

// New builds a Client with the given per-call wall-clock budget. A zero
// timeout uses DefaultTimeout.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// CallOptions parameterizes one Call.
type CallOptions struct {
	Model     string // empty uses the detected provider's default
	Endpoint  string // empty uses DefaultEndpoint (provider-B)
	MaxTokens int    // 0 omits the field
}

type chatRequest struct {
	Model       string                         `json:"model"`
	Messages    []openai.ChatCompletionMessage `json:"messages"`
	MaxTokens   int                            `json:"max_tokens,omitempty"`
	Stream      bool                           `json:"stream"`
	Temperature float32                        `json:"temperature,omitempty"`
	TopP        float32                        `json:"top_p,omitempty"`
}

// chatResponse mirrors openai.ChatCompletionResponse's happy-path shape,
// plus the reasoning_content sidecar field some OpenAI-compatible
// providers (DeepSeek's reasoner models) populate when content is empty.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content          string `json:"content"`
			ReasoningContent string `json:"reasoning_content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Call issues one chat-completions request and returns the model's reply
// text. Provider is auto-detected from opts.Endpoint; the
// matching API key is read from the provider's environment variable at
// call time (never cached), so a rotated key takes effect on the next
// call.
func (c *Client) Call(ctx context.Context, prompt string, opts CallOptions) (string, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	provider := DetectProvider(endpoint)

	model := opts.Model
	if model == "" {
		model = provider.DefaultModel
	}

	key := os.Getenv(provider.EnvVar)
	if key == "" {
		return "", errs.ConfigMissing(provider.EnvVar, provider.Name)
	}

	req := chatRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: opts.MaxTokens,
		Stream:    false,
	}
	if provider.ExtraFields {
		req.Temperature = 0.2
		req.TopP = 0.7
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("apiclient: marshal request: %w", err)
	}

	timer := logging.StartTimer(logging.CategoryAPIClient, "Call:"+provider.Name)
	defer timer.Stop()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("apiclient: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", errs.Cancelled("LLM call")
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", errs.APITimeout(provider.Name, err)
		}
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", errs.APITimeout(provider.Name, err)
		}
		return "", errs.APITransport(provider.Name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.APITransport(provider.Name, err)
	}

	if resp.StatusCode != http.StatusOK {
		logging.APIClient("Call:%s status=%d", provider.Name, resp.StatusCode)
		return "", errs.ClassifyAPIStatus(provider.Name, resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", errs.APITransport(provider.Name, fmt.Errorf("decode response: %w", err))
	}
	if parsed.Error != nil {
		return "", errs.APITransport(provider.Name, fmt.Errorf("provider error: %s", parsed.Error.Message))
	}
	if len(parsed.Choices) == 0 {
		return "", errs.APITransport(provider.Name, fmt.Errorf("no choices in response"))
	}

	msg := parsed.Choices[0].Message
	if msg.Content != "" {
		return msg.Content, nil
	}
	if msg.ReasoningContent != "" {
		logging.APIClientDebug("Call:%s content empty, using reasoning_content", provider.Name)
		return msg.ReasoningContent, nil
	}
	return "", nil
}
