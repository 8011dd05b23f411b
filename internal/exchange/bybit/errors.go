package bybit

import (
	"fmt"
)

// BybitError represents a Bybit API error with additional context
type BybitError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *BybitError) Error() string {
	return fmt.Sprintf("Bybit API error %d: %s", e.Code, e.Message)
}

// Common Bybit error codes seen on market-data endpoints
const (
	ErrCodeInvalidAPIKey     = 10003
	ErrCodeRateLimitExceeded = 10006
	ErrCodeSymbolNotFound    = 110009
)

// NewBybitError creates a new BybitError
func NewBybitError(code int, message string) *BybitError {
	return &BybitError{Code: code, Message: message}
}

// IsRateLimitError checks if the error is due to rate limiting
func IsRateLimitError(err error) bool {
	if bybitErr, ok := err.(*BybitError); ok {
		return bybitErr.Code == ErrCodeRateLimitExceeded
	}
	return false
}

// IsSymbolNotFoundError checks if the error is due to an unknown symbol
func IsSymbolNotFoundError(err error) bool {
	if bybitErr, ok := err.(*BybitError); ok {
		return bybitErr.Code == ErrCodeSymbolNotFound
	}
	return false
}
