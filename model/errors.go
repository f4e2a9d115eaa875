package model

import (
	"errors"
	"fmt"
)

var (
	ErrFetch            = errors.New("FETCH_ERROR")
	ErrRateLimitReached = errors.New("RATE_LIMIT_REACHED")
	ErrRateLimiter      = errors.New("RATE_LIMITER_ERROR")
	ErrInvalidData      = errors.New("INVALID_DATA_FOUND")
	ErrInvalidParameter = errors.New("INVALID_PARAMETER")
)

// DataFormatError is returned when a repository attribute received from github can't be parsed
type DataFormatError struct {
	Repository string
	Field      string
	Value      string
	Err        error
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("%s: cannot parse %s %q of repository %q", ErrInvalidData, e.Field, e.Value, e.Repository)
}

func (e *DataFormatError) Unwrap() []error {
	return nonNil(ErrInvalidData, e.Err)
}

// FetchError wraps a failure of the github search call
// Reason is one of ErrFetch, ErrRateLimitReached or ErrRateLimiter, a nil Reason means ErrFetch
type FetchError struct {
	Reason error
	Err    error
}

func (e *FetchError) reason() error {
	if e.Reason == nil {
		return ErrFetch
	}

	return e.Reason
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return e.reason().Error()
	}

	return e.reason().Error() + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() []error {
	return nonNil(e.reason(), e.Err)
}

type InvalidParameterError struct {
	Parameter string
	Message   string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidParameter, e.Message)
}

func (e *InvalidParameterError) Unwrap() error {
	return ErrInvalidParameter
}

func nonNil(errs ...error) []error {
	result := make([]error, 0, len(errs))

	for _, err := range errs {
		if err != nil {
			result = append(result, err)
		}
	}

	return result
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewAPIError(errReason error) APIError {
	var invalidParameter *InvalidParameterError

	switch {
	case errors.As(errReason, &invalidParameter):
		return APIError{
			Code:    ErrInvalidParameter.Error(),
			Message: invalidParameter.Message,
		}

	case errors.Is(errReason, ErrRateLimitReached):
		return APIError{
			Code:    ErrRateLimitReached.Error(),
			Message: "github rate limit reached. consider using a token to increase the limit or wait few minutes and try again",
		}

	case errors.Is(errReason, ErrInvalidData):
		return APIError{
			Code:    ErrInvalidData.Error(),
			Message: "invalid repository data received from github. contact our support with the reason code for assistance",
		}

	case errors.Is(errReason, ErrFetch), errors.Is(errReason, ErrRateLimiter):
		var fetchErr *FetchError
		code := ErrFetch.Error()

		if errors.As(errReason, &fetchErr) {
			code = fetchErr.reason().Error()
		}

		return APIError{
			Code:    code,
			Message: "unable to fetch repositories from github. contact our support with the reason code for assistance",
		}
	}

	return APIError{
		Code:    "GENERIC_ERROR",
		Message: "internal server error. contact our support with the reason code for assistance",
	}
}
