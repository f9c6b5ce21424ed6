package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/Brawl345/picedit/logger"
)

var log = logger.New("ai")

type (
	Client struct {
		sender Sender
		policy RetryPolicy
		sleep  func(ctx context.Context, d time.Duration) error
	}

	Option func(*Client)
)

func WithSender(sender Sender) Option {
	return func(c *Client) { c.sender = sender }
}

func WithPolicy(policy RetryPolicy) Option {
	return func(c *Client) { c.policy = policy }
}

// WithSleep replaces the pause between attempts.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = sleep }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		policy: DefaultRetryPolicy(),
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sender == nil {
		c.sender = NewTransport(nil)
	}
	return c
}

func (c *Client) Policy() RetryPolicy {
	return c.policy
}

// Call runs req against endpoint with up to MaxRetries retries. Terminal errors end
// the loop at once; only the last error is returned. A cancelled ctx ends the loop
// with the context error.
func (c *Client) Call(ctx context.Context, endpoint, apiKey string, req Request) (*Response, error) {
	payload, err := Encode(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := uint(0); attempt <= c.policy.MaxRetries; attempt++ {
		started := time.Now()
		resp, err := c.attempt(ctx, payload, endpoint, apiKey, req.Model)
		if err == nil {
			log.Debug().
				Str("model", req.Model).
				Uint("attempt", attempt).
				Uint32("tokens", resp.TokensUsed).
				Str("finish_reason", resp.FinishReason).
				Dur("took", time.Since(started)).
				Msg("AI call succeeded")
			return resp, nil
		}
		lastErr = err

		if attempt == c.policy.MaxRetries {
			break
		}
		if !ShouldRetry(err) {
			log.Warn().
				Err(err).
				Str("model", req.Model).
				Uint("attempt", attempt).
				Msg("AI call failed with terminal error, not retrying")
			break
		}

		delay := DelayFor(attempt, c.policy)
		log.Warn().
			Err(err).
			Str("model", req.Model).
			Uint("attempt", attempt+1).
			Uint("max_retries", c.policy.MaxRetries).
			Dur("delay", delay).
			Msg("AI call failed, retrying")

		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, payload []byte, endpoint, apiKey, model string) (*Response, error) {
	raw, err := c.sender.Send(ctx, payload, endpoint, apiKey)
	if err != nil {
		return nil, ClassifyFailure(err)
	}
	if gwErr := ClassifyStatus(raw.StatusCode, raw.Body); gwErr != nil {
		return nil, gwErr
	}
	return Decode(raw.Body, model)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
