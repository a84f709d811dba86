// ABOUTME: Anthropic generation backend for claude-* model identifiers
// ABOUTME: Completion plus streaming over the official anthropic-sdk-go
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/harper/longform/internal/util"
)

const anthropicBackend = "anthropic"

// AnthropicClient wraps the Anthropic messages API
type AnthropicClient struct {
	client     anthropic.Client
	model      string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewAnthropicClient creates an Anthropic-backed generation client
func NewAnthropicClient(opts Options, apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &AnthropicClient{
		client:     anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:      opts.Model,
		timeout:    timeout,
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
	}, nil
}

// ModelID returns the declared model identifier
func (c *AnthropicClient) ModelID() string {
	return c.model
}

func (c *AnthropicClient) params(system, user string, maxTokens int) anthropic.MessageNewParams {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	}
}

// Complete issues one blocking messages call with retries and backoff
func (c *AnthropicClient) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", &TransportError{Backend: anthropicBackend, Err: ctx.Err()}
			case <-time.After(util.CalculateBackoff(c.retryDelay, attempt)):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		msg, err := c.client.Messages.New(callCtx, c.params(system, user, maxTokens))
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		var sb strings.Builder
		for _, block := range msg.Content {
			if text, ok := block.AsAny().(anthropic.TextBlock); ok {
				sb.WriteString(text.Text)
			}
		}
		if sb.Len() == 0 {
			lastErr = fmt.Errorf("attempt %d: no text content returned", attempt+1)
			continue
		}
		return sb.String(), nil
	}

	return "", &TransportError{
		Backend: anthropicBackend,
		Err:     fmt.Errorf("completion failed after %d attempts: %w", c.maxRetries+1, lastErr),
	}
}

// Stream issues a streaming messages call, forwarding text deltas.
// No mid-stream retry; a disconnect surfaces as a transport error.
func (c *AnthropicClient) Stream(ctx context.Context, system, user string, maxTokens int, handler FragmentHandler) error {
	stream := c.client.Messages.NewStreaming(ctx, c.params(system, user, maxTokens))

	for stream.Next() {
		event := stream.Current()
		if delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent); ok {
			if text, ok := delta.Delta.AsAny().(anthropic.TextDelta); ok && text.Text != "" {
				if err := handler(text.Text); err != nil {
					return err
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return &TransportError{Backend: anthropicBackend, Err: err}
	}
	return nil
}
