package httpUtils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrReadBody marks failures that happened after the response headers arrived.
var ErrReadBody = errors.New("failed to read response body")

type HttpError struct {
	StatusCode int
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("unexpected HTTP status: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *HttpError) StatusText() string {
	return http.StatusText(e.StatusCode)
}
