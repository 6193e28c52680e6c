package types

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidAPIHost = errors.New("invalid API host")
	ErrMissingAPIKey  = errors.New("missing API key")

	// Response errors
	ErrNoResults       = errors.New("no results found")
	ErrProviderTimeout = errors.New("provider timeout")
	ErrInvalidResponse = errors.New("invalid response from provider")
)

// ProviderError wraps a transport or protocol failure of the hotel
// provider.
type ProviderError struct {
	Code    string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider: %s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("provider: %s: %s", e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
