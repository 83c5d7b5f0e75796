package extract

import "errors"

// Common errors returned by the extract package
var (
	// ErrInvalidURL is returned when the source URL cannot be parsed
	ErrInvalidURL = errors.New("invalid URL format")

	// ErrFetchFailed is returned when the page cannot be retrieved
	ErrFetchFailed = errors.New("failed to fetch URL")

	// ErrUnreadablePage is returned when no article content can be extracted
	ErrUnreadablePage = errors.New("could not extract content from this page")

	// ErrInvalidPDF is returned when the uploaded bytes are not a readable PDF
	ErrInvalidPDF = errors.New("failed to process PDF")
)
