package common

import (
	"errors"
	"testing"
)

func TestAppError(t *testing.T) {
	e := NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)

	if got := e.Error(); got != "CONFIG_ERROR: OPENAI_API_KEY is required: invalid input" {
		t.Fatalf("Error() = %q", got)
	}
	if !errors.Is(e, ErrInvalidInput) {
		t.Fatalf("cause not reachable through Unwrap")
	}

	var appErr *AppError
	if !errors.As(error(e), &appErr) || appErr.Code != "CONFIG_ERROR" {
		t.Fatalf("errors.As failed: %+v", appErr)
	}
}

func TestAppError_NoCause(t *testing.T) {
	e := NewAppError("X", "boom", nil)
	if got := e.Error(); got != "X: boom" {
		t.Fatalf("Error() = %q", got)
	}
	if e.Unwrap() != nil {
		t.Fatalf("Unwrap should be nil")
	}
}
