package agent

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/openai/openai-go"

	"venuebook/internal/metrics"
)

const (
	// LLMMaxAttempts bounds how many times one chat turn may hit the model.
	LLMMaxAttempts = 3

	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 5 * time.Second
)

// completeWithRetry retries transient LLM failures with exponential backoff.
// Non-transient errors (auth, bad request) fail the call immediately.
func completeWithRetry(ctx context.Context, llm ChatCompleter, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	var lastErr error
	delay := retryBaseDelay

	for attempt := 1; attempt <= LLMMaxAttempts; attempt++ {
		completion, err := llm.Complete(ctx, params)
		if err == nil {
			return completion, nil
		}
		lastErr = err
		if !isTransient(err) || attempt == LLMMaxAttempts {
			break
		}

		metrics.LLMRetries.Inc()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > retryMaxDelay {
			delay = retryMaxDelay
		}
	}
	return nil, lastErr
}

func isTransient(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}
