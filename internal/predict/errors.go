package predict

import "fmt"

// TransientError wraps a retryable failure (network error, timeout,
// 5xx-equivalent) after the retry budget is exhausted.
type TransientError struct {
	Attempts int
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("prediction failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError is a non-retryable failure: bad request, auth failure, or
// any other response retrying cannot fix.
type PermanentError struct {
	StatusCode int
	Message    string
}

func (e *PermanentError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("prediction rejected (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("prediction rejected: %s", e.Message)
}
