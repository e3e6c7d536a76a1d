// Package llm provides retry functionality for completion transports with exponential backoff.
//
// Retry belongs to the transport layer: a conversation log never retries, it
// only records a reply once a call has succeeded.
//
// Basic usage with default configuration (3 retries, 1s base delay, 2x backoff):
//
//	client, _ := openai.NewClient(config)
//	retryClient := llm.RetryChatCompletion(client)
//	resp, err := retryClient.ChatCompletion(ctx, request)
//
// Only retry rate limits:
//
//	retryClient := llm.RetryChatCompletion(client, llm.RetryConfig{
//		MaxRetries:         3,
//		BaseDelay:          2 * time.Second,
//		RetryOnStatusCodes: []int{429},
//	})
package llm

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"math"
	"time"
)

// secureRandomFloat64 generates a cryptographically secure random float64 between 0 and 1
func secureRandomFloat64() (float64, error) {
	var bytes [8]byte
	_, err := rand.Read(bytes[:])
	if err != nil {
		return 0, err
	}
	return float64(binary.BigEndian.Uint64(bytes[:])) / float64(^uint64(0)), nil
}

// RetryConfig defines configuration options for the retry mechanism.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts.
	// Total requests = MaxRetries + 1 (original attempt); 0 disables retries.
	MaxRetries int

	// BaseDelay is the initial delay between retries (default: 1 second).
	BaseDelay time.Duration

	// MaxDelay caps the maximum delay between retries (default: 60 seconds).
	MaxDelay time.Duration

	// BackoffFactor multiplies the delay after each retry (default: 2.0).
	BackoffFactor float64

	// Jitter multiplies each delay by a random factor between 0.5 and 1.5.
	Jitter bool

	// RetryableErrors lists additional error codes that should trigger retries.
	RetryableErrors []string

	// RetryOnStatusCodes specifies exact HTTP status codes to retry on.
	// If empty, uses default behavior (429, 5xx). If specified, ONLY these codes trigger retries.
	RetryOnStatusCodes []int

	// RetryOnErrorTypes specifies exact error types to retry on.
	// If specified, ONLY these types trigger retries.
	RetryOnErrorTypes []string
}

// DefaultRetryConfig returns a sensible default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		BaseDelay:       1 * time.Second,
		MaxDelay:        60 * time.Second,
		BackoffFactor:   2.0,
		Jitter:          true,
		RetryableErrors: []string{"rate_limit_exceeded"},
	}
}

// RetryableChatCompleter wraps a ChatCompleter with retry functionality
type RetryableChatCompleter struct {
	client ChatCompleter
	config RetryConfig
}

// RetryChatCompletion creates a new retryable wrapper around any ChatCompleter.
// It retries on throttling (HTTP 429), rate limit errors and temporary
// server errors (5xx), using exponential backoff with optional jitter.
// Only *Error values are considered; any other error is returned at once.
// Without a config the defaults apply; a given config keeps its MaxRetries,
// zero included, and only its zero delays and factor are filled in.
func RetryChatCompletion(client ChatCompleter, config ...RetryConfig) ChatCompleter {
	cfg := DefaultRetryConfig()
	if len(config) > 0 {
		cfg = config[0]
		if cfg.MaxRetries < 0 {
			cfg.MaxRetries = 0
		}
		if cfg.BaseDelay <= 0 {
			cfg.BaseDelay = 1 * time.Second
		}
		if cfg.MaxDelay <= 0 {
			cfg.MaxDelay = 60 * time.Second
		}
		if cfg.BackoffFactor <= 0 {
			cfg.BackoffFactor = 2.0
		}
		if cfg.RetryableErrors == nil {
			cfg.RetryableErrors = []string{"rate_limit_exceeded"}
		}
	}

	return &RetryableChatCompleter{
		client: client,
		config: cfg,
	}
}

// ChatCompletion executes the chat completion with retry logic
func (r *RetryableChatCompleter) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		resp, err := r.client.ChatCompletion(ctx, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if attempt == r.config.MaxRetries {
			break
		}

		if !r.isRetryableError(err) {
			return nil, err
		}

		delay := r.calculateDelay(attempt)
		Logger().Warn("completion failed, retrying", "attempt", attempt+1, "max_retries", r.config.MaxRetries, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, lastErr
}

// isRetryableError determines if an error should trigger a retry
func (r *RetryableChatCompleter) isRetryableError(err error) bool {
	var llmErr *Error
	if !errors.As(err, &llmErr) {
		return false
	}

	// If specific status codes are configured, only retry on those
	if len(r.config.RetryOnStatusCodes) > 0 {
		if r.statusCodeMatches(llmErr.StatusCode) {
			return true
		}
		if len(r.config.RetryOnErrorTypes) == 0 {
			return false
		}
	}

	// If specific error types are configured, only retry on those
	if len(r.config.RetryOnErrorTypes) > 0 {
		for _, errorType := range r.config.RetryOnErrorTypes {
			if llmErr.Type == errorType {
				return true
			}
		}
		return false
	}

	if llmErr.IsRateLimit() {
		return true
	}

	for _, retryableCode := range r.config.RetryableErrors {
		if llmErr.Code == retryableCode {
			return true
		}
	}

	// Server errors might be temporary
	return llmErr.StatusCode >= 500 && llmErr.StatusCode < 600
}

// statusCodeMatches checks if the status code matches any in RetryOnStatusCodes
func (r *RetryableChatCompleter) statusCodeMatches(statusCode int) bool {
	for _, code := range r.config.RetryOnStatusCodes {
		if statusCode == code {
			return true
		}
	}
	return false
}

// calculateDelay computes the delay for a given retry attempt using exponential backoff
func (r *RetryableChatCompleter) calculateDelay(attempt int) time.Duration {
	delay := float64(r.config.BaseDelay) * math.Pow(r.config.BackoffFactor, float64(attempt))

	if r.config.Jitter {
		randomValue, err := secureRandomFloat64()
		if err != nil {
			randomValue = 1.0
		}
		delay *= 0.5 + randomValue
	}

	if delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}

	return time.Duration(delay)
}

var _ ChatCompleter = (*RetryableChatCompleter)(nil)
