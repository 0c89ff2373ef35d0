package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantType      ErrorType
		wantRetryable bool
	}{
		{
			name:          "unauthorized",
			err:           errors.New("status code 401: unauthorized"),
			wantType:      ErrorTypeAuth,
			wantRetryable: false,
		},
		{
			name:          "invalid api key",
			err:           errors.New("invalid api key provided"),
			wantType:      ErrorTypeAuth,
			wantRetryable: false,
		},
		{
			name:          "model missing",
			err:           errors.New("model gpt-99 does not exist"),
			wantType:      ErrorTypeModel,
			wantRetryable: false,
		},
		{
			name:          "connection refused",
			err:           errors.New("dial tcp 127.0.0.1:8000: connection refused"),
			wantType:      ErrorTypeEndpoint,
			wantRetryable: true,
		},
		{
			name:          "deadline exceeded",
			err:           errors.New("context deadline exceeded"),
			wantType:      ErrorTypeEndpoint,
			wantRetryable: true,
		},
		{
			name:          "rate limited",
			err:           errors.New("429 rate limit reached for requests"),
			wantType:      ErrorTypeUnknown,
			wantRetryable: true,
		},
		{
			name:          "server error",
			err:           errors.New("status code 503: service unavailable"),
			wantType:      ErrorTypeEndpoint,
			wantRetryable: true,
		},
		{
			name:          "unknown",
			err:           errors.New("something odd happened"),
			wantType:      ErrorTypeUnknown,
			wantRetryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := ClassifyError(tt.err)
			assert.Equal(t, tt.wantType, classified.Type)
			assert.Equal(t, tt.wantRetryable, classified.Retryable)
			assert.ErrorIs(t, classified, tt.err)
		})
	}
}

func TestClassifyErrorPassesThroughStructured(t *testing.T) {
	orig := NewError(ErrorTypeResponse, "no choices", false, nil)
	wrapped := fmt.Errorf("generate: %w", orig)

	classified := ClassifyError(wrapped)
	assert.Same(t, orig, classified)
}

func TestClassifyErrorNil(t *testing.T) {
	assert.Nil(t, ClassifyError(nil))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewError(ErrorTypeEndpoint, "timeout", true, nil)))
	assert.False(t, IsRetryable(NewError(ErrorTypeAuth, "denied", false, nil)))
	assert.False(t, IsRetryable(errors.New("plain error")))
}

func TestErrorString(t *testing.T) {
	err := NewError(ErrorTypeAuth, "authentication failed", false, errors.New("401"))
	err.StatusCode = 401
	assert.Equal(t, "auth HTTP 401 authentication failed: 401", err.Error())
}
