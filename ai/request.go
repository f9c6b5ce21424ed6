package ai

import "strings"

// Request is a provider independent description of one model call.
type Request struct {
	Model  string
	Prompt string
	// Image is either a raw base64 payload or a complete data URI. Empty means text only.
	Image       string
	MaxTokens   *uint32
	Temperature *float32
}

func Ptr[T any](v T) *T {
	return &v
}

// NewMessages builds the single user message: the prompt first, then the image if any.
func NewMessages(req Request) []chatMessage {
	prompt := req.Prompt
	content := []contentPart{{Type: partTypeText, Text: &prompt}}

	if req.Image != "" {
		url := req.Image
		if !strings.HasPrefix(url, "data:") {
			url = defaultImagePrefix + url
		}
		content = append(content, contentPart{
			Type:     partTypeImageURL,
			ImageURL: &imageURL{URL: url},
		})
	}

	return []chatMessage{{Role: roleUser, Content: content}}
}

// Encode returns the JSON body for req. The image bytes are not inspected.
func Encode(req Request) ([]byte, error) {
	return json.Marshal(&chatRequest{
		Model:       req.Model,
		Messages:    NewMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
}
