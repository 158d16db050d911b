package cmd

import (
	"errors"
	"fmt"
)

// Configuration and input errors. Callers match them with errors.Is.
var (
	// ErrMissingAPIKey is returned when the hosted backend has no API key.
	ErrMissingAPIKey = errors.New("DEEPSEEK_API_KEY environment variable is required for the hosted backend")

	// ErrUnknownBackend is returned for a backend name other than hosted, local or ollama.
	ErrUnknownBackend = errors.New("unknown backend: must be hosted, local or ollama")

	// ErrUnknownHTMLMode is returned for an HTML mode other than raw, strip or readability.
	ErrUnknownHTMLMode = errors.New("unknown html mode: must be raw, strip or readability")

	// ErrInvalidTimeout is returned when the fetch timeout is negative.
	ErrInvalidTimeout = errors.New("invalid fetch timeout: must be non-negative")

	// ErrExamples wraps any failure to read or decode the example posts file.
	ErrExamples = errors.New("cannot load example posts")

	// ErrEmptyPage is wrapped by FetchError when the page body is empty.
	ErrEmptyPage = errors.New("page has no content")
)

// FetchError reports a failed page download.
type FetchError struct {
	URL string
	// StatusCode is zero for transport-level failures.
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
