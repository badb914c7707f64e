package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		err  *AppError
		code int
		typ  string
	}{
		{NewNotFound("x"), http.StatusNotFound, "not_found"},
		{NewBadRequest("x"), http.StatusBadRequest, "bad_request"},
		{NewConflict("x"), http.StatusConflict, "conflict"},
		{NewTooManyRequests("x"), http.StatusTooManyRequests, "rate_limited"},
		{NewValidation("x"), http.StatusUnprocessableEntity, "validation_error"},
	}
	for _, tt := range tests {
		if tt.err.Code != tt.code || tt.err.Type != tt.typ {
			t.Errorf("got %d/%s, want %d/%s", tt.err.Code, tt.err.Type, tt.code, tt.typ)
		}
	}
}

func TestNewInternal_HidesCause(t *testing.T) {
	cause := errors.New("Error 1146: Table 'kinenbi.anniversaries' doesn't exist")
	err := NewInternal(cause)

	if !errors.Is(err, cause) {
		t.Error("cause should be reachable through Unwrap")
	}
	if SafeMessage(err) == cause.Error() {
		t.Error("internal cause leaked into safe message")
	}
	if SafeCode(err) != http.StatusInternalServerError {
		t.Errorf("SafeCode = %d", SafeCode(err))
	}
}

func TestSafeMessage_Wrapped(t *testing.T) {
	err := fmt.Errorf("update anniversary: %w", NewNotFound("anniversary not found"))
	if got := SafeMessage(err); got != "anniversary not found" {
		t.Errorf("SafeMessage = %q", got)
	}
	if got := SafeCode(err); got != http.StatusNotFound {
		t.Errorf("SafeCode = %d", got)
	}
	if got := SafeCode(errors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("SafeCode(plain) = %d", got)
	}
}
