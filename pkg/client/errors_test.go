package client

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorClass
	}{
		{400, ErrorClassClient},
		{401, ErrorClassClient},
		{403, ErrorClassForbidden},
		{404, ErrorClassNotFound},
		{415, ErrorClassClient},
		{429, ErrorClassRateLimit},
		{500, ErrorClassServer},
		{503, ErrorClassServer},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			if got := ClassifyStatus(tt.status); got != tt.want {
				t.Errorf("ClassifyStatus(%d) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestUpstreamError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *UpstreamError
		expected string
	}{
		{
			name: "with wrapped error",
			err: &UpstreamError{
				Kind:     FailureUpstreamUnavailable,
				Endpoint: endpointMatchDetail,
				Err:      errors.New("connection refused"),
			},
			expected: "riot " + endpointMatchDetail + " upstream_unavailable (status 0): connection refused",
		},
		{
			name: "status only",
			err: &UpstreamError{
				Kind:       FailureUpstreamRejected,
				StatusCode: 403,
				Endpoint:   endpointLeague,
			},
			expected: "riot " + endpointLeague + " upstream_rejected (status 403)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestUpstreamError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := fmt.Errorf("fetch page: %w", &UpstreamError{Kind: FailureMalformedPayload, Err: inner})

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatal("errors.As should find *UpstreamError")
	}
	if ue.Kind != FailureMalformedPayload {
		t.Errorf("Kind = %q", ue.Kind)
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(&UpstreamError{Kind: FailureUpstreamRejected, StatusCode: 404}) {
		t.Error("404 should be not found")
	}
	if IsNotFound(&UpstreamError{Kind: FailureUpstreamRejected, StatusCode: 403}) {
		t.Error("403 is not not-found")
	}
	if IsNotFound(errors.New("plain")) {
		t.Error("plain error is not not-found")
	}
	if IsNotFound(nil) {
		t.Error("nil is not not-found")
	}
}
