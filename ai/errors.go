package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Brawl345/picedit/utils/httpUtils"
)

// Category labels a failure. Vendor error types are used verbatim, so the set is open.
type Category string

const (
	CategoryNetwork       Category = "network"
	CategoryResponseRead  Category = "response_read"
	CategoryAPI           Category = "api"
	CategoryParse         Category = "parse"
	CategoryEmptyResponse Category = "empty_response"
	CategoryAuth          Category = "auth_error"
	CategoryQuota         Category = "quota_error"
	CategoryImage         Category = "image_error"
)

var terminalCategories = map[Category]struct{}{
	CategoryAuth:  {},
	CategoryQuota: {},
	CategoryImage: {},
	CategoryParse: {},
}

type Error struct {
	Category Category
	Message  string
	Code     string
	// StatusCode is set for non-2xx responses.
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 && e.Category != CategoryAPI {
		return fmt.Sprintf("api:%s: %s", e.Category, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Terminal() bool {
	_, ok := terminalCategories[e.Category]
	return ok
}

// ShouldRetry reports false only for gateway errors in a terminal category.
func ShouldRetry(err error) bool {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return !gwErr.Terminal()
	}
	return true
}

// ClassifyFailure maps an error from the transport. Failures after the headers
// arrived are response_read, everything else is network.
func ClassifyFailure(err error) *Error {
	if errors.Is(err, httpUtils.ErrReadBody) {
		return &Error{
			Category: CategoryResponseRead,
			Message:  fmt.Sprintf("failed to read response: %v", err),
			Err:      err,
		}
	}
	return &Error{
		Category: CategoryNetwork,
		Message:  fmt.Sprintf("request failed: %v", err),
		Err:      err,
	}
}

// ClassifyStatus returns nil for 2xx. Otherwise it decodes the vendor error
// envelope, falling back to a generic api error that carries status and body.
func ClassifyStatus(status int, body []byte) *Error {
	if status >= 200 && status < 300 {
		return nil
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil &&
		envelope.Error != nil && envelope.Error.Type != nil && envelope.Error.Message != nil {
		category := Category(*envelope.Error.Type)
		if category == "" {
			category = CategoryAPI
		}
		return &Error{
			Category:   category,
			Message:    *envelope.Error.Message,
			Code:       rawCode(envelope.Error.Code),
			StatusCode: status,
		}
	}

	return &Error{
		Category:   CategoryAPI,
		Message:    fmt.Sprintf("API call failed (%d %s): %s", status, http.StatusText(status), strings.TrimSpace(string(body))),
		Code:       strconv.Itoa(status),
		StatusCode: status,
	}
}

// rawCode accepts the string and numeric codes different vendors send.
func rawCode(raw []byte) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
