package model

var costPer1KTokens = map[string]float64{
	"gpt-4o":               0.005,
	"gpt-4o-mini":          0.00015,
	"gpt-4-vision-preview": 0.01,
	"claude-3-opus":        0.015,
	"claude-3-sonnet":      0.003,
	"claude-3-haiku":       0.00025,
}

const defaultCostPer1KTokens = 0.002

// EstimateCost returns the USD price for tokens on the given model.
func EstimateCost(model string, tokens int64) float64 {
	price, ok := costPer1KTokens[model]
	if !ok {
		price = defaultCostPer1KTokens
	}
	return float64(tokens) / 1000 * price
}
