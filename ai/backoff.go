package ai

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sosodev/duration"
)

type RetryPolicy struct {
	MaxRetries    uint
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:    3,
		BaseDelay:     1000 * time.Millisecond,
		MaxDelay:      10000 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

// DelayFor returns BaseDelay * BackoffFactor^attempt capped at MaxDelay. attempt is 0-indexed.
func DelayFor(attempt uint, policy RetryPolicy) time.Duration {
	delay := float64(policy.BaseDelay) * math.Pow(policy.BackoffFactor, float64(attempt))
	if math.IsNaN(delay) || delay >= float64(policy.MaxDelay) {
		return policy.MaxDelay
	}
	if delay < 0 {
		return 0
	}
	return time.Duration(delay)
}

// PolicyFromEnv starts from the defaults and applies AI_MAX_RETRIES, AI_BASE_DELAY,
// AI_MAX_DELAY and AI_BACKOFF_FACTOR.
func PolicyFromEnv() (RetryPolicy, error) {
	policy := DefaultRetryPolicy()

	if raw := strings.TrimSpace(os.Getenv("AI_MAX_RETRIES")); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return policy, fmt.Errorf("AI_MAX_RETRIES: %w", err)
		}
		policy.MaxRetries = uint(n)
	}

	if raw := strings.TrimSpace(os.Getenv("AI_BASE_DELAY")); raw != "" {
		d, err := ParseDelay(raw)
		if err != nil {
			return policy, fmt.Errorf("AI_BASE_DELAY: %w", err)
		}
		policy.BaseDelay = d
	}

	if raw := strings.TrimSpace(os.Getenv("AI_MAX_DELAY")); raw != "" {
		d, err := ParseDelay(raw)
		if err != nil {
			return policy, fmt.Errorf("AI_MAX_DELAY: %w", err)
		}
		policy.MaxDelay = d
	}

	if raw := strings.TrimSpace(os.Getenv("AI_BACKOFF_FACTOR")); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return policy, fmt.Errorf("AI_BACKOFF_FACTOR: %w", err)
		}
		if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return policy, fmt.Errorf("AI_BACKOFF_FACTOR: must be a positive number, got %s", raw)
		}
		policy.BackoffFactor = f
	}

	return policy, nil
}

// ParseDelay accepts ISO 8601 durations ("PT1.5S") and Go durations ("1500ms").
func ParseDelay(s string) (time.Duration, error) {
	if strings.HasPrefix(strings.ToUpper(s), "P") {
		d, err := duration.Parse(strings.ToUpper(s))
		if err != nil {
			return 0, err
		}
		return d.ToTimeDuration(), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative delay %s", s)
	}
	return d, nil
}
