package service

import (
	"errors"
	"fmt"
)

// ErrRequestInProgress is returned when another request holds the same idempotency key
var ErrRequestInProgress = errors.New("a request with this idempotency key is already in progress")

// ValidationError rejects a request the caller can fix. BookID names the
// offending line item when there is one.
type ValidationError struct {
	BookID  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func unavailableBook(bookID string) *ValidationError {
	return &ValidationError{
		BookID:  bookID,
		Message: fmt.Sprintf("Book %s not available or insufficient stock", bookID),
	}
}

func invalidQuantity(bookID string, quantity int) *ValidationError {
	return &ValidationError{
		BookID:  bookID,
		Message: fmt.Sprintf("Book %s has invalid quantity %d", bookID, quantity),
	}
}

func invalidRequest(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
