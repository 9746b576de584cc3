package seekingalpha

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned before any request when no API key is set.
	ErrMissingCredential = errors.New("API key is missing")

	// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
	ErrUnexpectedStatusCode = errors.New("unexpected status code")

	// ErrMissingItems indicates a list response without a data collection.
	ErrMissingItems = errors.New("response has no data collection")

	// ErrMissingID indicates a list item without an article ID.
	ErrMissingID = errors.New("article without id")

	// ErrInvalidPayload indicates a detail body that is not JSON.
	ErrInvalidPayload = errors.New("detail payload is not valid JSON")
)

// FetchError reports a transport or decoding failure for one symbol listing
// or one article fetch.
type FetchError struct {
	Symbol    string
	ArticleID string
	Page      int
	Err       error
}

func (e *FetchError) Error() string {
	if e.ArticleID != "" {
		return fmt.Sprintf("fetch content for ID %s: %v", e.ArticleID, e.Err)
	}

	return fmt.Sprintf("list articles for %s (page %d): %v", e.Symbol, e.Page, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
