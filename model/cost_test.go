package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCost(t *testing.T) {
	assert.InDelta(t, 0.005, EstimateCost("gpt-4o", 1000), 1e-12)
	assert.InDelta(t, 0.0015, EstimateCost("gpt-4o-mini", 10000), 1e-12)
	assert.InDelta(t, 0.00025, EstimateCost("claude-3-haiku", 1000), 1e-12)
	assert.InDelta(t, 0.004, EstimateCost("some-local-model", 2000), 1e-12)
	assert.Zero(t, EstimateCost("gpt-4o", 0))
}
