package ai

import "fmt"

type Response struct {
	Content      string
	TokensUsed   uint32
	Model        string
	FinishReason string
}

// Decode parses a successful chat completion. model is reported back as-is because
// vendors do not reliably echo the requested model name.
func Decode(body []byte, model string) (*Response, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{
			Category: CategoryParse,
			Message:  fmt.Sprintf("failed to parse response: %v", err),
			Err:      err,
		}
	}

	if resp.Choices == nil || resp.Usage == nil || resp.Usage.TotalTokens == nil {
		return nil, &Error{
			Category: CategoryParse,
			Message:  "failed to parse response: missing choices or usage",
		}
	}
	for i, choice := range *resp.Choices {
		if choice.Message == nil || choice.Message.Content == nil {
			return nil, &Error{
				Category: CategoryParse,
				Message:  fmt.Sprintf("failed to parse response: choice %d has no message content", i),
			}
		}
	}

	if len(*resp.Choices) == 0 {
		return nil, &Error{
			Category: CategoryEmptyResponse,
			Message:  "the model returned no choices",
		}
	}

	first := (*resp.Choices)[0]
	finishReason := ""
	if first.FinishReason != nil {
		finishReason = *first.FinishReason
	}

	return &Response{
		Content:      *first.Message.Content,
		TokensUsed:   *resp.Usage.TotalTokens,
		Model:        model,
		FinishReason: finishReason,
	}, nil
}
