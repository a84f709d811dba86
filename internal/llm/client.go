// ABOUTME: Generation client contract shared by the OpenAI and Anthropic backends
// ABOUTME: Completion plus streaming, with a distinguishable transport-error kind
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// FragmentHandler receives incremental text fragments during streaming.
// Returning an error aborts the stream.
type FragmentHandler func(fragment string) error

// Client is the generation capability consumed by the coherence core.
// Implementations are selected by declared model identifier and must be
// constructor-injected; components never reach into ambient global state.
type Client interface {
	// Complete issues one blocking generation call
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)

	// Stream issues a streaming generation call, forwarding fragments
	// to the handler as they arrive
	Stream(ctx context.Context, system, user string, maxTokens int, handler FragmentHandler) error

	// ModelID returns the declared model identifier of this backend
	ModelID() string
}

// Options holds shared configuration for the generation clients
type Options struct {
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// TransportError marks failures of the external generation call itself
// (network, API, mid-stream disconnect), as opposed to unusable output.
// Transport errors are terminal for a session.
type TransportError struct {
	Backend string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport error: %v", e.Backend, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// NewClient selects a backend by the declared model identifier:
// claude-* models route to Anthropic, everything else to OpenAI.
func NewClient(opts Options, openaiKey, anthropicKey string) (Client, error) {
	if opts.Model == "" {
		return nil, errors.New("model identifier is required")
	}
	if strings.HasPrefix(opts.Model, "claude") {
		return NewAnthropicClient(opts, anthropicKey)
	}
	return NewOpenAIClient(opts, openaiKey)
}
