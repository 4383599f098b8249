// internal/common/errors/errors_test.go
package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name         string
		err          *StandardError
		wantCode     ErrorCode
		wantRetries  int
		wantCategory string
	}{
		{
			name:         "provider fetch failure retries",
			err:          NewProviderFetchFailedError("marketdata", errors.New("timeout")),
			wantCode:     ErrCodeProviderFetchFailed,
			wantRetries:  3,
			wantCategory: "transient_io",
		},
		{
			name:         "rate limit never retries in-run",
			err:          NewProviderRateLimitedError("newsapi"),
			wantCode:     ErrCodeProviderRateLimited,
			wantRetries:  0,
			wantCategory: "rate_limit",
		},
		{
			name:         "invalid token is terminal",
			err:          NewPushTokenInvalidError("arn:dead"),
			wantCode:     ErrCodePushTokenInvalid,
			wantRetries:  0,
			wantCategory: "terminal_delivery",
		},
		{
			name:         "signature mismatch is authentication",
			err:          NewWebhookSignatureInvalidError("digest mismatch"),
			wantCode:     ErrCodeWebhookSignatureInvalid,
			wantRetries:  0,
			wantCategory: "authentication",
		},
		{
			name:         "store write retries",
			err:          NewStoreWriteFailedError(errors.New("conn reset")),
			wantCode:     ErrCodeStoreWriteFailed,
			wantRetries:  3,
			wantCategory: "transient_io",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantRetries, GetRetryCount(tt.err.Code))
			assert.Equal(t, tt.wantCategory, GetErrorCategory(tt.err.Code))
		})
	}
}

func TestStandardError_ErrorsAs(t *testing.T) {
	wrapped := NewStoreReadFailedError(errors.New("conn refused"))

	var stdErr *StandardError
	assert.True(t, errors.As(error(wrapped), &stdErr))
	assert.Equal(t, ErrCodeStoreReadFailed, stdErr.Code)
	assert.NotEmpty(t, wrapped.Error())
}
