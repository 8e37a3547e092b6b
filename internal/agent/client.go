// Package agent wraps the Anthropic SDK behind the one contract the pipeline
// needs: given a prompt, return text.
package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Client is the process-wide completion client. The underlying SDK client is
// constructed on first use and shared by all requests afterwards; it holds no
// per-request state, so concurrent use needs no further synchronization.
type Client struct {
	apiKey    string
	baseURL   string
	model     string
	maxTokens int64

	once  sync.Once
	inner *anthropic.Client
}

// NewClient creates a completion client. Construction is cheap; no network
// resources are allocated until the first Complete call.
func NewClient(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = "claude-sonnet-4-6"
	}
	return &Client{
		apiKey:    apiKey,
		baseURL:   baseURL,
		model:     model,
		maxTokens: 2048,
	}
}

func (c *Client) client() *anthropic.Client {
	c.once.Do(func() {
		opts := []option.RequestOption{option.WithAPIKey(c.apiKey)}
		if c.baseURL != "" {
			opts = append(opts, option.WithBaseURL(c.baseURL))
		}
		c.inner = anthropic.NewClient(opts...)
	})
	return c.inner
}

// Model reports the configured model ID.
func (c *Client) Model() string {
	return c.model
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Complete sends one message request and returns the concatenated text
// blocks of the reply. Synchronous, one request/response pair per call.
func (c *Client) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.Model(c.model)),
		MaxTokens: anthropic.F(c.maxTokens),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		}),
		Temperature: anthropic.F(temperature),
	}
	if system != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(system),
		})
	}

	resp, err := c.client().Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if b, ok := block.AsUnion().(anthropic.TextBlock); ok {
			text += b.Text
		}
	}
	return text, nil
}
