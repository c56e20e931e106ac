/*
Package ai implements the rate-limited gateway to the external text-completion
service.

The Gateway owns a per-identity query counter that lives for the process
lifetime: once an identity has consumed its quota it stays exhausted until
restart. Counter mutation is not locked; the relay hub is the single owner of
all Gateway state and calls Consume from its event loop only.
*/
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"relaychat/internal/pkg/logx"
)

// CompletionTimeout bounds a single call to the completion service.
const CompletionTimeout = 30 * time.Second

// Completer is the external completion service consumed by the Gateway.
type Completer interface {
	// Complete sends the prompt and returns the reply text, bounded to
	// roughly maxOutputTokens of output.
	Complete(ctx context.Context, prompt string, maxOutputTokens int) (string, error)
}

// OpenAIClient is the production Completer backed by the OpenAI API.
type OpenAIClient struct {
	api   openai.Client
	model string
}

// NewOpenAIClient builds a Completer for the given credentials. An empty
// baseURL uses the default API endpoint.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIClient{
		api:   openai.NewClient(opts...),
		model: model,
	}
}

// Complete implements Completer via the chat completions endpoint.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
	res, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(int64(maxOutputTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if len(res.Choices) == 0 {
		return "", fmt.Errorf("completion service returned no choices")
	}

	return res.Choices[0].Message.Content, nil
}

// Gateway applies the per-identity quota and forwards approved queries to the
// Completer.
type Gateway struct {
	completer Completer

	// limit is the number of queries each identity may submit per process lifetime.
	limit int

	// maxTokens is the output-length bound passed to the completion service.
	maxTokens int

	// counts maps identity id to the number of accepted queries. Never reset.
	counts map[string]int

	logger zerolog.Logger
}

// NewGateway constructs a Gateway around the given Completer.
func NewGateway(completer Completer, limit, maxTokens int) *Gateway {
	return &Gateway{
		completer: completer,
		limit:     limit,
		maxTokens: maxTokens,
		counts:    make(map[string]int),
		logger:    logx.Logger().With().Str("component", "AIGateway").Logger(),
	}
}

// Limit returns the per-identity query limit.
func (g *Gateway) Limit() int {
	return g.limit
}

// Consume reports whether the identity may submit another query, charging the
// quota immediately when it may. The slot is charged before the external call
// is made and is never refunded, even when the call later fails.
func (g *Gateway) Consume(identityID string) bool {
	if g.counts[identityID] >= g.limit {
		g.logger.Info().
			Str("identity_id", identityID).
			Int("limit", g.limit).
			Msg("AI query rejected: quota exhausted.")
		return false
	}

	g.counts[identityID]++

	g.logger.Info().
		Str("identity_id", identityID).
		Int("used", g.counts[identityID]).
		Int("limit", g.limit).
		Msg("AI query accepted.")

	return true
}

// Remaining returns how many queries the identity has left.
func (g *Gateway) Remaining(identityID string) int {
	remaining := g.limit - g.counts[identityID]
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Complete forwards the raw query to the completion service with the
// configured output bound and timeout. Safe to call off the hub loop; it
// touches no Gateway state besides the immutable configuration.
func (g *Gateway) Complete(ctx context.Context, query string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, CompletionTimeout)
	defer cancel()

	return g.completer.Complete(callCtx, query, g.maxTokens)
}
