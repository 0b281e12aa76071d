package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMessageComposition(t *testing.T) {
	cause := errors.New("boom")
	err := E(CodeTranscriptionFailed, "Engine.Transcribe", "speech model invocation failed", cause)

	assert.Equal(t, "Engine.Transcribe: speech model invocation failed: boom", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsCode(err, CodeTranscriptionFailed))
	assert.False(t, IsCode(err, CodeInternal))
}

func TestAppErrorWithoutCause(t *testing.T) {
	err := E(CodeInvalidArgument, "ChatService.Answer", "question is required", nil)
	assert.Equal(t, "ChatService.Answer: question is required", err.Error())
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeUnsupportedFormat, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeSchemaValidation, http.StatusUnprocessableEntity},
		{CodeRetrievalFailed, http.StatusServiceUnavailable},
		{CodeGenerationFailed, http.StatusServiceUnavailable},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeTimeout, http.StatusGatewayTimeout},
		{CodeConversionFailed, http.StatusInternalServerError},
		{CodeTranscriptionFailed, http.StatusInternalServerError},
		{CodeInvalidConfiguration, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(E(tc.code, "op", "msg", nil)), "code %s", tc.code)
	}
}

func TestHTTPStatusPlainErrors(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}
