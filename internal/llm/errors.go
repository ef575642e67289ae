package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey indicates the selected provider needs a key and none was configured.
	ErrMissingAPIKey = errors.New("llm api key missing")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrTransport indicates the provider could not be reached or rejected the request.
	ErrTransport = errors.New("llm transport failure")

	// ErrInvalidOutput indicates the response could not be parsed into the expected structure.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrEmptyResponse indicates the provider answered without any text.
	ErrEmptyResponse = errors.New("llm returned empty response")
)

// WrapCallError classifies an error from a provider call as ErrTimeout or ErrTransport.
func WrapCallError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrMissingAPIKey) || errors.Is(err, ErrTransport) || errors.Is(err, ErrTimeout) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}
