package llm

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retryClient decorates a Client with a per-call timeout and bounded
// exponential backoff. Exhaustion surfaces the last error to the caller,
// which treats it as an infrastructure failure.
type retryClient struct {
	inner      Client
	timeout    time.Duration
	maxElapsed time.Duration
}

// WithRetry wraps a client with per-call timeouts and bounded retry.
func WithRetry(inner Client, timeout, maxElapsed time.Duration) Client {
	return &retryClient{
		inner:      inner,
		timeout:    timeout,
		maxElapsed: maxElapsed,
	}
}

func (c *retryClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	var resp *CompletionResponse

	operation := func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		r, err := c.inner.Complete(callCtx, req)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = c.maxElapsed

	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *retryClient) Name() string {
	return c.inner.Name()
}

func (c *retryClient) Models() []string {
	return c.inner.Models()
}
