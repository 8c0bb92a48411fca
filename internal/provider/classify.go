package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go/v3"
)

// FailureKind groups provider errors for the user-facing fallback warning.
type FailureKind string

const (
	FailureTimeout     FailureKind = "timeout"
	FailureAuth        FailureKind = "auth"
	FailureRateLimit   FailureKind = "rate_limit"
	FailureMalformed   FailureKind = "malformed"
	FailureUnavailable FailureKind = "unavailable"
)

// Classify maps an error returned by New or Complete to a FailureKind.
// Anything unrecognized is reported as unavailable.
func Classify(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}

	if errors.Is(err, ErrMissingAPIKey) {
		return FailureAuth
	}
	if errors.Is(err, ErrEmptyResponse) {
		return FailureMalformed
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return FailureMalformed
	}

	if status, ok := statusCode(err); ok {
		switch {
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return FailureAuth
		case status == http.StatusTooManyRequests:
			return FailureRateLimit
		case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
			return FailureTimeout
		}
	}
	return FailureUnavailable
}

func statusCode(err error) (int, bool) {
	var oaErr *openai.Error
	if errors.As(err, &oaErr) {
		return oaErr.StatusCode, true
	}
	var anErr *anthropic.Error
	if errors.As(err, &anErr) {
		return anErr.StatusCode, true
	}
	return 0, false
}
