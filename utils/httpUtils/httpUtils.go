package httpUtils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/Brawl345/picedit/logger"
)

const maxDownloadSize = 20 << 20

var (
	log               = logger.New("httpUtils")
	DefaultHttpClient = NewHttpClient(0)
)

// NewHttpClient returns a client with tuned dial and idle settings. Vision calls
// can take a while before the first header byte, so the response header timeout
// follows the overall timeout when one is given.
func NewHttpClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = 7 * time.Second
	transport.ResponseHeaderTimeout = 2 * time.Minute
	if timeout > 0 && timeout < transport.ResponseHeaderTimeout {
		transport.ResponseHeaderTimeout = timeout
	}
	transport.MaxIdleConnsPerHost = 20
	transport.IdleConnTimeout = 5 * time.Minute

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// PostRaw sends body as JSON and hands back status and body without judging the status.
// Read failures wrap ErrReadBody.
func PostRaw(ctx context.Context, client *http.Client, url string, headers map[string]string, body []byte) (int, []byte, error) {
	log.Debug().
		Str("url", url).
		Int("size", len(body)).
		Send()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	if client == nil {
		client = DefaultHttpClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Err(err).Msg("Failed to close response body")
		}
	}(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: %w", ErrReadBody, err)
	}

	log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("size", len(data)).
		Send()
	return resp.StatusCode, data, nil
}

// Download fetches url and returns the body together with its Content-Type.
func Download(ctx context.Context, url string) ([]byte, string, error) {
	log.Debug().
		Str("url", url).
		Send()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := DefaultHttpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download file: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Err(err).Msg("Failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, "", &HttpError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrReadBody, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
