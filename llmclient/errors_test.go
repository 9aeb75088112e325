package llmclient

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorFromStatusCode(t *testing.T) {
	tests := []struct {
		status    int
		wantType  string
		retryable bool
	}{
		{400, "*llmclient.InvalidRequestError", false},
		{401, "*llmclient.AuthenticationError", false},
		{403, "*llmclient.AccessDeniedError", false},
		{404, "*llmclient.NotFoundError", false},
		{413, "*llmclient.ContextLengthError", false},
		{422, "*llmclient.InvalidRequestError", false},
		{429, "*llmclient.RateLimitError", true},
		{500, "*llmclient.ServerError", true},
		{502, "*llmclient.ServerError", true},
		{503, "*llmclient.ServerError", true},
		{504, "*llmclient.ServerError", true},
		{418, "*llmclient.ProviderError", true},
	}

	for _, tt := range tests {
		err := ErrorFromStatusCode(tt.status, "boom", "test", `{"error":"boom"}`)
		typeName := errTypeName(err)
		if typeName != tt.wantType {
			t.Errorf("status %d: expected %s, got %s", tt.status, tt.wantType, typeName)
		}
		if got := IsRetryable(err); got != tt.retryable {
			t.Errorf("status %d: expected retryable=%v, got %v", tt.status, tt.retryable, got)
		}
	}
}

func errTypeName(err error) string {
	switch err.(type) {
	case *InvalidRequestError:
		return "*llmclient.InvalidRequestError"
	case *AuthenticationError:
		return "*llmclient.AuthenticationError"
	case *AccessDeniedError:
		return "*llmclient.AccessDeniedError"
	case *NotFoundError:
		return "*llmclient.NotFoundError"
	case *ContextLengthError:
		return "*llmclient.ContextLengthError"
	case *RateLimitError:
		return "*llmclient.RateLimitError"
	case *ServerError:
		return "*llmclient.ServerError"
	case *RequestTimeoutError:
		return "*llmclient.RequestTimeoutError"
	case *ProviderError:
		return "*llmclient.ProviderError"
	default:
		return "unknown"
	}
}

func TestProviderErrorRetainsBody(t *testing.T) {
	err := ErrorFromStatusCode(500, "server fault", "openrouter", `{"error":{"message":"overloaded"}}`)
	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ServerError, got %T", err)
	}
	if !strings.Contains(se.Body, "overloaded") {
		t.Errorf("expected body to be retained, got %q", se.Body)
	}
	if se.Provider != "openrouter" {
		t.Errorf("expected provider %q, got %q", "openrouter", se.Provider)
	}
}

func TestSDKErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &NetworkError{SDKError: SDKError{Message: "request failed", Cause: cause}}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestEmptyCompletionIsNotRetryable(t *testing.T) {
	err := NewEmptyCompletionError("test")
	if IsRetryable(err) {
		t.Error("empty completion must not be retryable")
	}
	if !IsEmptyCompletion(err) {
		t.Error("IsEmptyCompletion should report true")
	}
	if IsEmptyCompletion(errors.New("other")) {
		t.Error("IsEmptyCompletion should report false for unrelated errors")
	}
}
