package llm

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorFromStatusCode(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantType  string
		retryable bool
	}{
		{"bad request", 400, "*llm.InvalidRequestError", false},
		{"unprocessable", 422, "*llm.InvalidRequestError", false},
		{"unauthorized", 401, "*llm.AuthenticationError", false},
		{"forbidden", 403, "*llm.AccessDeniedError", false},
		{"not found", 404, "*llm.NotFoundError", false},
		{"payload too large", 413, "*llm.ContextLengthError", false},
		{"rate limited", 429, "*llm.RateLimitError", true},
		{"internal", 500, "*llm.ServerError", true},
		{"bad gateway", 502, "*llm.ServerError", true},
		{"unavailable", 503, "*llm.ServerError", true},
		{"gateway timeout", 504, "*llm.ServerError", true},
		{"teapot", 418, "*llm.ProviderError", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ErrorFromStatusCode(tt.status, "boom", "openai")
			if got := typeName(err); got != tt.wantType {
				t.Errorf("status %d: got %s, want %s", tt.status, got, tt.wantType)
			}
			if got := IsRetryable(err); got != tt.retryable {
				t.Errorf("status %d: IsRetryable = %v, want %v", tt.status, got, tt.retryable)
			}
		})
	}
}

func typeName(err error) string {
	switch err.(type) {
	case *InvalidRequestError:
		return "*llm.InvalidRequestError"
	case *AuthenticationError:
		return "*llm.AuthenticationError"
	case *AccessDeniedError:
		return "*llm.AccessDeniedError"
	case *NotFoundError:
		return "*llm.NotFoundError"
	case *ContextLengthError:
		return "*llm.ContextLengthError"
	case *RateLimitError:
		return "*llm.RateLimitError"
	case *ServerError:
		return "*llm.ServerError"
	case *ProviderError:
		return "*llm.ProviderError"
	default:
		return "unknown"
	}
}

func TestProviderErrorMessage(t *testing.T) {
	err := ErrorFromStatusCode(429, "too many requests", "anthropic")
	msg := err.Error()
	for _, want := range []string{"anthropic", "too many requests", "429"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}

func TestBackendErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &NetworkError{BackendError: BackendError{Message: "request failed", Cause: cause}}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestIsRetryableNonProviderErrors(t *testing.T) {
	if IsRetryable(nil) {
		t.Error("nil should not be retryable")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("untyped errors should not be retryable")
	}
	if !IsRetryable(&NetworkError{BackendError: BackendError{Message: "timeout"}}) {
		t.Error("network errors should be retryable")
	}
	if IsRetryable(&ConfigurationError{BackendError: BackendError{Message: "missing key"}}) {
		t.Error("configuration errors should never be retryable")
	}
}
