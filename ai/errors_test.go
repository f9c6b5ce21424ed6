package ai

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Brawl345/picedit/utils/httpUtils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		category Category
		want     bool
	}{
		{CategoryAuth, false},
		{CategoryQuota, false},
		{CategoryImage, false},
		{CategoryParse, false},
		{CategoryNetwork, true},
		{CategoryResponseRead, true},
		{CategoryEmptyResponse, true},
		{CategoryAPI, true},
		{"invalid_request_error", true},
		{"server_error", true},
		{"AUTH_ERROR", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRetry(&Error{Category: tt.category}))
		})
	}
}

func TestShouldRetryWrappedAndForeignErrors(t *testing.T) {
	wrapped := fmt.Errorf("edit failed: %w", &Error{Category: CategoryQuota})
	assert.False(t, ShouldRetry(wrapped))
	assert.True(t, ShouldRetry(errors.New("something else")))
}

func TestClassifyStatusSuccess(t *testing.T) {
	assert.Nil(t, ClassifyStatus(http.StatusOK, []byte(`{}`)))
	assert.Nil(t, ClassifyStatus(http.StatusCreated, nil))
}

func TestClassifyStatusVendorEnvelope(t *testing.T) {
	gwErr := ClassifyStatus(http.StatusUnauthorized,
		[]byte(`{"error":{"message":"bad key","type":"auth_error","code":"invalid_api_key"}}`))

	require.NotNil(t, gwErr)
	assert.Equal(t, CategoryAuth, gwErr.Category)
	assert.Equal(t, "bad key", gwErr.Message)
	assert.Equal(t, "invalid_api_key", gwErr.Code)
	assert.Equal(t, http.StatusUnauthorized, gwErr.StatusCode)
	assert.True(t, gwErr.Terminal())
	assert.Equal(t, "api:auth_error: bad key", gwErr.Error())
}

func TestClassifyStatusVendorEnvelopeCodes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"null code", `{"error":{"message":"m","type":"server_error","code":null}}`, ""},
		{"missing code", `{"error":{"message":"m","type":"server_error"}}`, ""},
		{"numeric code", `{"error":{"message":"m","type":"server_error","code":503}}`, "503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gwErr := ClassifyStatus(http.StatusServiceUnavailable, []byte(tt.body))
			require.NotNil(t, gwErr)
			assert.Equal(t, Category("server_error"), gwErr.Category)
			assert.Equal(t, tt.want, gwErr.Code)
		})
	}
}

func TestClassifyStatusWithoutEnvelope(t *testing.T) {
	for _, body := range []string{"<html>Bad Gateway</html>", `{"detail":"nope"}`, `{"error":"flat string"}`, ""} {
		gwErr := ClassifyStatus(http.StatusBadGateway, []byte(body))

		require.NotNil(t, gwErr, body)
		assert.Equal(t, CategoryAPI, gwErr.Category)
		assert.Equal(t, "502", gwErr.Code)
		assert.Contains(t, gwErr.Message, "502")
		assert.Contains(t, gwErr.Message, body)
		assert.True(t, ShouldRetry(gwErr))
	}
}

func TestClassifyFailure(t *testing.T) {
	cause := errors.New("connection refused")
	network := ClassifyFailure(cause)
	assert.Equal(t, CategoryNetwork, network.Category)
	assert.ErrorIs(t, network, cause)

	read := ClassifyFailure(fmt.Errorf("%w: %w", httpUtils.ErrReadBody, cause))
	assert.Equal(t, CategoryResponseRead, read.Category)
	assert.True(t, ShouldRetry(read))
}
