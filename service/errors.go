package service

import "errors"

// ErrNonRetryable marks failures that requeueing cannot fix (bad input,
// malformed message). Join it onto the cause with errors.Join.
var ErrNonRetryable = errors.New("non-retryable error")
