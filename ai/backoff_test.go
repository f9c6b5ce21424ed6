package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayForDefaults(t *testing.T) {
	policy := DefaultRetryPolicy()

	assert.Equal(t, 1000*time.Millisecond, DelayFor(0, policy))
	assert.Equal(t, 2000*time.Millisecond, DelayFor(1, policy))
	assert.Equal(t, 4000*time.Millisecond, DelayFor(2, policy))
	assert.Equal(t, 8000*time.Millisecond, DelayFor(3, policy))
	assert.Equal(t, 10000*time.Millisecond, DelayFor(4, policy))
	assert.Equal(t, 10000*time.Millisecond, DelayFor(5, policy))
	assert.Equal(t, 10000*time.Millisecond, DelayFor(1000, policy))
}

func TestDelayForMatchesFormula(t *testing.T) {
	policy := RetryPolicy{BaseDelay: 150 * time.Millisecond, MaxDelay: 3 * time.Second, BackoffFactor: 1.5}

	want := 150 * time.Millisecond
	for attempt := uint(0); attempt < 12; attempt++ {
		expected := want
		if expected > policy.MaxDelay {
			expected = policy.MaxDelay
		}
		assert.InDelta(t, float64(expected), float64(DelayFor(attempt, policy)), float64(time.Microsecond), "attempt %d", attempt)
		want = time.Duration(float64(want) * 1.5)
	}
}

func TestDelayForZeroBase(t *testing.T) {
	policy := RetryPolicy{BaseDelay: 0, MaxDelay: time.Second, BackoffFactor: 2}
	assert.Equal(t, time.Duration(0), DelayFor(3, policy))
}

func TestPolicyFromEnv(t *testing.T) {
	t.Setenv("AI_MAX_RETRIES", "5")
	t.Setenv("AI_BASE_DELAY", "PT0.5S")
	t.Setenv("AI_MAX_DELAY", "30s")
	t.Setenv("AI_BACKOFF_FACTOR", "3")

	policy, err := PolicyFromEnv()
	require.NoError(t, err)
	assert.Equal(t, RetryPolicy{
		MaxRetries:    5,
		BaseDelay:     500 * time.Millisecond,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 3,
	}, policy)
}

func TestPolicyFromEnvDefaults(t *testing.T) {
	t.Setenv("AI_MAX_RETRIES", "")
	t.Setenv("AI_BASE_DELAY", "")
	t.Setenv("AI_MAX_DELAY", "")
	t.Setenv("AI_BACKOFF_FACTOR", "")

	policy, err := PolicyFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultRetryPolicy(), policy)
}

func TestPolicyFromEnvRejectsGarbage(t *testing.T) {
	t.Setenv("AI_BACKOFF_FACTOR", "-1")
	_, err := PolicyFromEnv()
	assert.Error(t, err)

	t.Setenv("AI_BACKOFF_FACTOR", "")
	t.Setenv("AI_MAX_RETRIES", "many")
	_, err = PolicyFromEnv()
	assert.Error(t, err)
}

func TestParseDelay(t *testing.T) {
	d, err := ParseDelay("PT2S")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	d, err = ParseDelay("pt1m")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)

	d, err = ParseDelay("1500ms")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	_, err = ParseDelay("-1s")
	assert.Error(t, err)

	_, err = ParseDelay("soon")
	assert.Error(t, err)
}
