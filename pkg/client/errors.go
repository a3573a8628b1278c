package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Configuration errors returned by New.
var (
	// ErrMissingToken is returned when no API token is configured.
	ErrMissingToken = errors.New("riot api token is required")

	// ErrMissingBaseURL is returned when a regional or platform host is unset.
	ErrMissingBaseURL = errors.New("riot base url is required")
)

// FailureKind is the coarse category of a failed upstream call.
type FailureKind string

const (
	// FailureUpstreamUnavailable covers network errors and timeouts.
	FailureUpstreamUnavailable FailureKind = "upstream_unavailable"

	// FailureUpstreamRejected covers any non-200 status.
	FailureUpstreamRejected FailureKind = "upstream_rejected"

	// FailureMalformedPayload covers bodies that do not decode.
	FailureMalformedPayload FailureKind = "malformed_payload"

	// FailureCacheUnavailable is reported when the cache backend is gone.
	FailureCacheUnavailable FailureKind = "cache_unavailable"
)

// ErrorClass is the status-level classification used for logs and metrics.
type ErrorClass string

const (
	ErrorClassClient    ErrorClass = "client"
	ErrorClassServer    ErrorClass = "server"
	ErrorClassRateLimit ErrorClass = "rate_limit"
	ErrorClassForbidden ErrorClass = "forbidden"
	ErrorClassNotFound  ErrorClass = "not_found"
	ErrorClassNetwork   ErrorClass = "network"
	ErrorClassDecode    ErrorClass = "decode"
)

// ClassifyStatus maps an HTTP status to an ErrorClass.
func ClassifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusForbidden:
		return ErrorClassForbidden
	case status == http.StatusNotFound:
		return ErrorClassNotFound
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 500:
		return ErrorClassServer
	default:
		return ErrorClassClient
	}
}

// UpstreamError describes a failed call to the Riot API. It never crosses
// the public operation boundary; operations log it and return absent.
type UpstreamError struct {
	Kind       FailureKind
	Class      ErrorClass
	StatusCode int
	Endpoint   string
	Err        error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("riot %s %s (status %d): %v", e.Endpoint, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("riot %s %s (status %d)", e.Endpoint, e.Kind, e.StatusCode)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.StatusCode == http.StatusNotFound
}
