package payments

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigNotFound is returned when no credentials are registered for a currency.
	ErrConfigNotFound = errors.New("no integration config for currency")

	// ErrValidation is returned when a request is missing a field the operation requires.
	ErrValidation = errors.New("payment validation failed")

	// ErrTransport is returned when the gateway could not be reached or replied with a non-2xx status.
	ErrTransport = errors.New("gateway transport error")
)

// HTTPError is a non-2xx reply from the gateway.
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("paynow request failed: url=%s http=%d body=%s", e.URL, e.StatusCode, e.Body)
}

func (e *HTTPError) Unwrap() error {
	return ErrTransport
}

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
