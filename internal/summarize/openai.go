package summarize

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	openAIDefaultModel     = "gpt-4o-mini"
	openAIDefaultMaxTokens = 120

	summarySystemPrompt = "Summarize the following document excerpt in one or two sentences. " +
		"Keep domain-specific terminology intact."
)

// OpenAIConfig holds configuration for the OpenAI summarizer client.
type OpenAIConfig struct {
	APIKey     string
	Model      string        // "gpt-4o-mini" (default)
	MaxTokens  int           // Summary length cap (default: 120)
	MaxRetries int           // Transport retries for transient failures
	RetryDelay time.Duration // Base retry delay
	Timeout    time.Duration // HTTP timeout
	BaseURL    string        // Optional (tests)
	HTTPClient *http.Client  // Optional (tests)
}

// OpenAIClient implements Summarizer using the official OpenAI SDK.
type OpenAIClient struct {
	model      string
	maxTokens  int
	maxRetries int
	retryDelay time.Duration
	client     openai.Client
}

// NewOpenAIClient creates a new OpenAI summarizer client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = openAIDefaultMaxTokens
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		// SDK-internal retries stay off; retry-go owns transient failures
		// so the attempt budget is in one place.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		client:     openai.NewClient(opts...),
	}
}

// Summarize condenses a chunk via chat completion. Transient failures
// (rate limits, 5xx) are retried up to the configured budget before the
// error surfaces to the caller.
func (c *OpenAIClient) Summarize(ctx context.Context, chunk string) (string, error) {
	text := strings.TrimSpace(chunk)
	if text == "" {
		return "", fmt.Errorf("chunk is empty")
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summarySystemPrompt),
			openai.UserMessage(text),
		},
		MaxTokens: openai.Int(int64(c.maxTokens)),
	}

	var summary string
	err := retry.Do(
		func() error {
			resp, err := c.client.Chat.Completions.New(ctx, params)
			if err != nil {
				return mapOpenAIError(err)
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("openai returned no choices")
			}
			summary = strings.TrimSpace(resp.Choices[0].Message.Content)
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)+1),
		retry.Delay(c.retryDelay),
		retry.RetryIf(isTransient),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", err
	}

	if summary == "" {
		return "", fmt.Errorf("openai returned empty summary")
	}
	return summary, nil
}

// transientError marks failures worth retrying at the transport level.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		wrapped := fmt.Errorf("openai summarization error (status %d): %s", apiErr.StatusCode, apiErr.Message)
		if apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError {
			return &transientError{err: wrapped}
		}
		return wrapped
	}
	return err
}

var _ Summarizer = (*OpenAIClient)(nil)
