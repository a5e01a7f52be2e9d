package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPArtifactFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		expectError   bool
		errorContains string
	}{
		{
			name:   "Success",
			status: 200,
			body:   "onnx-bytes",
		},
		{
			name:          "4xx client error",
			status:        404,
			expectError:   true,
			errorContains: "client error: status code 404",
		},
		{
			name:          "5xx server error",
			status:        503,
			expectError:   true,
			errorContains: "server error: status code 503",
		},
		{
			name:          "Unexpected 2xx",
			status:        204,
			expectError:   true,
			errorContains: "unexpected status code 204",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requestCount := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requestCount++
				w.WriteHeader(tt.status)
				if tt.body != "" {
					w.Write([]byte(tt.body))
				} else {
					w.Write([]byte(fmt.Sprintf("Error %d", tt.status)))
				}
			}))
			defer server.Close()

			var buf bytes.Buffer
			n, err := NewHTTPArtifactFetcher().Fetch(context.Background(), server.URL+"/model.onnx", &buf)

			// Failures are never retried
			if requestCount != 1 {
				t.Errorf("Expected 1 request, got %d", requestCount)
			}

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error, but got none")
				} else if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("Expected error to contain '%s', got: %s", tt.errorContains, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got: %s", err.Error())
			}
			if n != int64(len(tt.body)) || buf.String() != tt.body {
				t.Errorf("Expected body %q (%d bytes), got %q (%d bytes)", tt.body, len(tt.body), buf.String(), n)
			}
		})
	}
}

func TestHTTPArtifactFetcher_InvalidURL(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewHTTPArtifactFetcher().Fetch(context.Background(), "://bad", &buf); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestHTTPArtifactFetcher_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if _, err := NewHTTPArtifactFetcher().Fetch(ctx, server.URL, &buf); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
