package ai

import (
	"context"
	"net/http"
	"strings"

	"github.com/Brawl345/picedit/utils/httpUtils"
)

type RawResponse struct {
	StatusCode int
	Body       []byte
}

// Sender performs exactly one HTTP attempt.
type Sender interface {
	Send(ctx context.Context, payload []byte, endpoint, apiKey string) (*RawResponse, error)
}

type Transport struct {
	client *http.Client
}

func NewTransport(client *http.Client) *Transport {
	if client == nil {
		client = httpUtils.DefaultHttpClient
	}
	return &Transport{client: client}
}

func ChatCompletionsURL(endpoint string) string {
	return strings.TrimRight(endpoint, "/") + chatCompletionsPath
}

// Send posts payload and returns whatever status and body came back.
// Deciding what the status means is up to the caller.
func (t *Transport) Send(ctx context.Context, payload []byte, endpoint, apiKey string) (*RawResponse, error) {
	status, body, err := httpUtils.PostRaw(ctx, t.client, ChatCompletionsURL(endpoint),
		map[string]string{
			"Authorization": "Bearer " + apiKey,
			"Accept":        "application/json",
		},
		payload)
	if err != nil {
		return nil, err
	}
	return &RawResponse{StatusCode: status, Body: body}, nil
}
