// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
)

// Classified analysis errors. Callers match these with errors.Is to decide
// how to recover; wrapped context carries the underlying detail.
var (
	// Credential errors.
	ErrInvalidInput       = errors.New("credential is empty")
	ErrClientConstruction = errors.New("client construction failed")
	ErrNotAuthenticated   = errors.New("not authenticated")

	// Analysis errors.
	ErrEmptyResponse     = errors.New("empty model response")
	ErrMalformedAnalysis = errors.New("malformed analysis response")
	ErrAnalysisInFlight  = errors.New("analysis already in progress")

	// Remote service errors.
	ErrRemoteAuthRejected = errors.New("api key rejected by remote service")
	ErrQuotaExceeded      = errors.New("api quota exceeded")
	ErrTransport          = errors.New("transport failure")
)
