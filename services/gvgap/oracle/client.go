// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package oracle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// Provider names understood by NewClient.
const (
	ProviderOpenAI   = "openai"
	ProviderTogether = "together"
)

// togetherBaseURL is Together's OpenAI-compatible chat completions root.
const togetherBaseURL = "https://api.together.xyz/v1"

// ErrUnknownProvider indicates a provider name NewClient does not know.
var ErrUnknownProvider = errors.New("unknown oracle provider")

// ErrEmptyResponse indicates the provider returned no choices.
var ErrEmptyResponse = errors.New("provider returned no choices")

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTemperature sets the sampling temperature. Default is 0.
func WithTemperature(t float32) ClientOption {
	return func(c *Client) { c.temperature = t }
}

// WithMaxTokens caps the completion length. Default lets the provider decide.
func WithMaxTokens(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithTimeout sets the per-call timeout. Default is 60 seconds.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetries sets the number of retries after the first attempt.
// Default is 2.
func WithRetries(n int) ClientOption {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithRetryBackoff sets the base backoff between attempts; the delay
// doubles per retry. Default is 500ms.
func WithRetryBackoff(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.backoff = d
		}
	}
}

// WithRateLimit bounds outgoing calls to qps queries per second across
// all workers sharing this client. Zero disables limiting.
func WithRateLimit(qps float64) ClientOption {
	return func(c *Client) {
		if qps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(qps), 1)
		}
	}
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client is an Oracle over an OpenAI-compatible chat completion API.
//
// Together's serverless endpoint speaks the same protocol, so both
// providers share this implementation and differ only in base URL.
// Invoke retries transient transport failures with exponential backoff
// before reporting a typed *Error; callers decide how to degrade.
//
// Thread safety: safe for concurrent use. The rate limiter, when
// configured, is shared across all goroutines using the client.
type Client struct {
	api         *openai.Client
	provider    string
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	retries     int
	backoff     time.Duration
	limiter     *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates an oracle client for the given provider and model.
// apiKey must be the matching provider credential.
func NewClient(provider, model, apiKey string, opts ...ClientOption) (*Client, error) {
	cfg := openai.DefaultConfig(apiKey)
	switch provider {
	case ProviderOpenAI:
		// default base URL
	case ProviderTogether:
		cfg.BaseURL = togetherBaseURL
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	c := &Client{
		api:      openai.NewClientWithConfig(cfg),
		provider: provider,
		model:    model,
		timeout:  60 * time.Second,
		retries:  2,
		backoff:  500 * time.Millisecond,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Invoke implements Oracle.
func (c *Client) Invoke(ctx context.Context, messages []Message) (*Response, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: c.temperature,
	}
	if c.maxTokens > 0 {
		req.MaxTokens = c.maxTokens
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			delay := c.backoff * time.Duration(1<<(attempt-1))
			c.logger.Debug("oracle call failed, retrying",
				slog.String("provider", c.provider),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", delay),
				slog.String("error", lastErr.Error()),
			)
			select {
			case <-ctx.Done():
				return nil, &Error{Provider: c.provider, Op: "chat_completion", Attempts: attempt, Err: ctx.Err()}
			case <-time.After(delay):
			}
		}

		resp, err := c.invokeOnce(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		// Cancellation is the caller's decision, never retried.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
	}
	return nil, &Error{Provider: c.provider, Op: "chat_completion", Attempts: c.retries + 1, Err: lastErr}
}

// invokeOnce performs a single rate-limited, timeout-bounded call.
func (c *Client) invokeOnce(ctx context.Context, req openai.ChatCompletionRequest) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(callCtx, req)
	latency := time.Since(start)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	return &Response{
		Text:    resp.Choices[0].Message.Content,
		Latency: latency,
		Usage: Usage{
			TokensIn:  resp.Usage.PromptTokens,
			TokensOut: resp.Usage.CompletionTokens,
		},
	}, nil
}
