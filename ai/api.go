package ai

import jsoniter "github.com/json-iterator/go"

// OpenAI compatible chat completions wire format.

const (
	chatCompletionsPath = "/chat/completions"
	roleUser            = "user"
	partTypeText        = "text"
	partTypeImageURL    = "image_url"
	defaultImagePrefix  = "data:image/jpeg;base64,"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	chatRequest struct {
		Model       string        `json:"model"`
		Messages    []chatMessage `json:"messages"`
		MaxTokens   *uint32       `json:"max_tokens,omitempty"`
		Temperature *float32      `json:"temperature,omitempty"`
	}

	chatMessage struct {
		Role    string        `json:"role"`
		Content []contentPart `json:"content"`
	}

	contentPart struct {
		Type     string    `json:"type"`
		Text     *string   `json:"text,omitempty"`
		ImageURL *imageURL `json:"image_url,omitempty"`
	}

	imageURL struct {
		URL string `json:"url"`
	}

	chatResponse struct {
		Choices *[]chatChoice `json:"choices"`
		Usage   *struct {
			TotalTokens *uint32 `json:"total_tokens"`
		} `json:"usage"`
	}

	chatChoice struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
		FinishReason *string `json:"finish_reason"`
	}

	errorEnvelope struct {
		Error *struct {
			Message *string            `json:"message"`
			Type    *string            `json:"type"`
			Code    jsoniter.RawMessage `json:"code"`
		} `json:"error"`
	}
)
