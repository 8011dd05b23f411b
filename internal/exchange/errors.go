package exchange

// ExchangeError represents standardized errors from market-data providers
type ExchangeError struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Details     string `json:"details,omitempty"`
	IsRetryable bool   `json:"is_retryable"`
}

func (e *ExchangeError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Common error types
var (
	ErrContractNotFound = &ExchangeError{
		Code:        "CONTRACT_NOT_FOUND",
		Message:     "No upstream contract found for instrument",
		IsRetryable: false,
	}

	ErrConnectionFailed = &ExchangeError{
		Code:        "CONNECTION_FAILED",
		Message:     "Failed to connect to market-data provider",
		IsRetryable: true,
	}

	ErrRateLimitExceeded = &ExchangeError{
		Code:        "RATE_LIMIT_EXCEEDED",
		Message:     "API rate limit exceeded",
		IsRetryable: true,
	}

	ErrRequestTimeout = &ExchangeError{
		Code:        "REQUEST_TIMEOUT",
		Message:     "Historical-data request timed out",
		IsRetryable: true,
	}

	ErrEmptyResponse = &ExchangeError{
		Code:        "EMPTY_RESPONSE",
		Message:     "Provider returned no bars for request",
		IsRetryable: false,
	}
)

// WrapError attaches operation context to a provider error, preserving the
// typed error when there is one.
func WrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if exchErr, ok := err.(*ExchangeError); ok {
		return &ExchangeError{
			Code:        exchErr.Code,
			Message:     exchErr.Message,
			Details:     operation,
			IsRetryable: exchErr.IsRetryable,
		}
	}
	return &ExchangeError{
		Code:    "PROVIDER_ERROR",
		Message: operation + " failed",
		Details: err.Error(),
	}
}

// IsRetryable reports whether an error is worth retrying at the transport
// level. Chunk-level failures are absorbed either way; this only informs
// the per-request retry inside a provider client.
func IsRetryable(err error) bool {
	if exchErr, ok := err.(*ExchangeError); ok {
		return exchErr.IsRetryable
	}
	return false
}
