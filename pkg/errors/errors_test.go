package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeToHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		CodeValidationFailed: http.StatusBadRequest,
		CodeConfiguration:    http.StatusServiceUnavailable,
		CodeLLMCallFailed:    http.StatusBadGateway,
		CodeTooManyRequests:  http.StatusTooManyRequests,
		CodeTokenInvalid:     http.StatusUnauthorized,
		CodeTokenMissing:     http.StatusUnauthorized,
		CodeTokenExpired:     http.StatusUnauthorized,
		CodeInvalidParam:     http.StatusBadRequest,
		CodeUnknown:          http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, New(code, "x").HTTPStatus, "code %s", code)
	}
}

func TestWithDetailDoesNotMutateSentinel(t *testing.T) {
	e := ErrValidation.WithDetail("topic is required")
	assert.Equal(t, "topic is required", e.Detail)
	assert.Empty(t, ErrValidation.Detail)
	assert.True(t, IsValidation(e))
}

func TestIsMatchesWrappedByCode(t *testing.T) {
	err := fmt.Errorf("init: %w", ErrConfiguration.WithError(stderrors.New("GOOGLE_API_KEY unset")))
	assert.True(t, IsConfiguration(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, CodeConfiguration, AsAppError(err).Code)
}

func TestAsAppErrorWrapsForeignErrors(t *testing.T) {
	appErr := AsAppError(stderrors.New("boom"))
	assert.Equal(t, CodeUnknown, appErr.Code)
	assert.Contains(t, appErr.Error(), "boom")
}
