package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeScrape represents a failed storefront scrape (network or layout)
	ErrorTypeScrape ErrorType = "scrape"
	// ErrorTypeItemParse represents a single malformed product within a scrape
	ErrorTypeItemParse ErrorType = "item_parse"
	// ErrorTypeRateLimit represents rate limiting by a storefront
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeDispatch represents a failed notification delivery
	ErrorTypeDispatch ErrorType = "dispatch"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// WatchError represents an error raised while checking an account
type WatchError struct {
	Type    ErrorType
	Account string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *WatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Account, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Account, e.Message)
}

// Unwrap returns the underlying error
func (e *WatchError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if a later cycle may succeed
func (e *WatchError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeScrape, ErrorTypeDispatch:
		return true
	case ErrorTypeRateLimit, ErrorTypeItemParse:
		return false
	default:
		return false
	}
}

// New creates a new WatchError
func New(errType ErrorType, account, message string, err error) *WatchError {
	return &WatchError{
		Type:    errType,
		Account: account,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewScrape creates a new scrape error
func NewScrape(account, message string, err error) *WatchError {
	return New(ErrorTypeScrape, account, message, err)
}

// NewItemParse creates a new per-item parse error
func NewItemParse(account, message string, err error) *WatchError {
	return New(ErrorTypeItemParse, account, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(account string, duration time.Duration) *WatchError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, account, message, nil)
}

// NewDispatch creates a new dispatch error
func NewDispatch(destination, message string, err error) *WatchError {
	return New(ErrorTypeDispatch, destination, message, err)
}

// NewCache creates a new cache error
func NewCache(account, message string, err error) *WatchError {
	return New(ErrorTypeCache, account, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *WatchError {
	return New(ErrorTypeConfiguration, "", message, err)
}
