package types

import "fmt"

// UpstreamFetchError is returned when the odds API answers with a non-success status
// or cannot be reached.
type UpstreamFetchError struct {
	URL        string // Request URL with the API key redacted
	StatusCode int    // HTTP status, zero when the request never completed
	Body       string // Response body if available
	Err        error  // Transport error if available
}

func (e *UpstreamFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}

	return fmt.Sprintf("fetch %s: unexpected status code %d: %s", e.URL, e.StatusCode, e.Body)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

// UpstreamParseError is returned when the odds API response body is not the
// expected JSON document.
type UpstreamParseError struct {
	Source string // URL or file path the payload came from
	Err    error
}

func (e *UpstreamParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *UpstreamParseError) Unwrap() error {
	return e.Err
}
