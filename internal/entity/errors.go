package entity

import "errors"

// Domain errors
var (
	// Upload errors
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrProcessing        = errors.New("failed to process file")
	ErrNoExtractableText = errors.New("no extractable text in document")
	ErrFileTooLarge      = errors.New("file too large")
	ErrMissingField      = errors.New("required field is missing")

	// Query errors
	ErrNoDataLoaded  = errors.New("no data loaded for session")
	ErrNoDataSources = errors.New("no data sources available for session")

	// Model invocation errors
	ErrRetriesExhausted = errors.New("model unavailable after retries")
	ErrEmptyCompletion  = errors.New("model returned empty completion")
)
