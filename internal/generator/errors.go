package generator

import (
	"errors"
)

var (
	// ErrMissingCredential is returned before any network call when no API
	// key is configured.
	ErrMissingCredential = errors.New("gemini API key is not set (export GEMINI_API_KEY or set gemini.api_key in the config file)")

	// ErrEmptyResponse is returned when the stream ends without any text.
	ErrEmptyResponse = errors.New("the API returned an empty response")

	// ErrInvalidJSON is returned when the cleaned response does not parse.
	ErrInvalidJSON = errors.New("the AI failed to generate valid JSON. Please try rephrasing your prompt")
)

// ErrorKind classifies a generation failure so callers can tailor messages.
type ErrorKind int

const (
	// KindConfig is a configuration problem detected before sending.
	KindConfig ErrorKind = iota
	// KindTransport is any upstream or network failure, including an empty stream.
	KindTransport
	// KindMalformed is a response that is not valid JSON after fence stripping.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTransport:
		return "transport"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// GenerationError is the single error type returned by Client.Generate.
type GenerationError struct {
	Kind ErrorKind
	Err  error
}

func (e *GenerationError) Error() string {
	switch e.Kind {
	case KindConfig:
		return e.Err.Error()
	case KindMalformed:
		return ErrInvalidJSON.Error()
	default:
		return "failed to generate workflow: " + e.Err.Error()
	}
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// KindOf returns the classification of err, or KindTransport for errors that
// did not come from this package.
func KindOf(err error) ErrorKind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return KindTransport
}
