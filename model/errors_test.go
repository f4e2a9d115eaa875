package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataFormatError(t *testing.T) {
	cause := errors.New("bad layout")
	err := error(&DataFormatError{Repository: "owner/repo", Field: "updated_at", Value: "not-a-date", Err: cause})

	assert.ErrorIs(t, err, ErrInvalidData)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "not-a-date")
	assert.Contains(t, err.Error(), "owner/repo")
}

func TestFetchError(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&FetchError{Reason: ErrFetch, Err: cause})

	assert.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "FETCH_ERROR: connection refused")
	assert.EqualError(t, &FetchError{Reason: ErrRateLimitReached}, "RATE_LIMIT_REACHED")
}

func TestFetchErrorWithoutReason(t *testing.T) {
	cause := errors.New("timeout")

	assert.EqualError(t, &FetchError{}, "FETCH_ERROR")
	assert.EqualError(t, &FetchError{Err: cause}, "FETCH_ERROR: timeout")
	assert.ErrorIs(t, &FetchError{Err: cause}, ErrFetch)
	assert.ErrorIs(t, &FetchError{Err: cause}, cause)
	assert.Equal(t, "FETCH_ERROR", NewAPIError(&FetchError{}).Code)
}

func TestNewAPIError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode string
	}{
		{
			name:         "Invalid parameter",
			err:          &InvalidParameterError{Parameter: "page", Message: "page must be positive"},
			expectedCode: "INVALID_PARAMETER",
		},
		{
			name:         "Rate limit reached",
			err:          &FetchError{Reason: ErrRateLimitReached},
			expectedCode: "RATE_LIMIT_REACHED",
		},
		{
			name:         "Rate limiter error",
			err:          &FetchError{Reason: ErrRateLimiter},
			expectedCode: "RATE_LIMITER_ERROR",
		},
		{
			name:         "Fetch error",
			err:          fmt.Errorf("search: %w", &FetchError{Reason: ErrFetch, Err: errors.New("timeout")}),
			expectedCode: "FETCH_ERROR",
		},
		{
			name:         "Data format error",
			err:          &DataFormatError{Repository: "a/b", Field: "updated_at", Value: "x"},
			expectedCode: "INVALID_DATA_FOUND",
		},
		{
			name:         "Unknown error",
			err:          errors.New("boom"),
			expectedCode: "GENERIC_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := NewAPIError(tt.err)

			assert.Equal(t, tt.expectedCode, apiErr.Code)
			assert.NotEmpty(t, apiErr.Message)
		})
	}
}
