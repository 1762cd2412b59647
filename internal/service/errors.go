package service

import "errors"

// ErrAnalysisInProgress is returned when another requester holds the
// analysis lock and no result appeared within the wait ceiling. Retryable.
var ErrAnalysisInProgress = errors.New("analysis still in progress, retry shortly")
