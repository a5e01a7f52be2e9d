package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestConstructors_StatusCodes(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantCode int
	}{
		{"validation", NewValidationError("bad variant", cause), ErrorTypeValidation, http.StatusUnprocessableEntity},
		{"decode", NewDecodeError("bad image", cause), ErrorTypeDecode, http.StatusBadRequest},
		{"inference", NewInferenceError("load failed", cause), ErrorTypeInference, http.StatusInternalServerError},
		{"storage", NewStorageError(cause), ErrorTypeStorage, http.StatusInternalServerError},
		{"internal", NewInternalError("oops", cause), ErrorTypeInternal, http.StatusInternalServerError},
		{"not found", NewNotFoundError("missing", nil), ErrorTypeNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.wantType {
				t.Errorf("Expected type %s, got %s", tt.wantType, tt.err.Type)
			}
			if GetStatusCode(tt.err) != tt.wantCode {
				t.Errorf("Expected status %d, got %d", tt.wantCode, GetStatusCode(tt.err))
			}
		})
	}
}

func TestNewStorageError_Message(t *testing.T) {
	err := NewStorageError(errors.New("disk full"))
	if err.Message != "store_failed: disk full" {
		t.Errorf("Unexpected message: %q", err.Message)
	}
	if !strings.Contains(err.Error(), "store_failed") {
		t.Errorf("Expected Error() to mention store_failed, got %q", err.Error())
	}
}

func TestIsType_Wrapped(t *testing.T) {
	base := NewDecodeError("bad image", nil)
	wrapped := fmt.Errorf("predict: %w", base)

	if !IsType(wrapped, ErrorTypeDecode) {
		t.Error("Expected wrapped error to match decode type")
	}
	if IsType(wrapped, ErrorTypeStorage) {
		t.Error("Did not expect wrapped error to match storage type")
	}
	if GetStatusCode(wrapped) != http.StatusBadRequest {
		t.Errorf("Expected 400 from wrapped error, got %d", GetStatusCode(wrapped))
	}
}

func TestGetStatusCode_PlainError(t *testing.T) {
	if code := GetStatusCode(errors.New("plain")); code != http.StatusInternalServerError {
		t.Errorf("Expected 500 for plain errors, got %d", code)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root")
	err := NewInferenceError("run failed", cause)
	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}
}
