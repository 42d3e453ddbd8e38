package imagegen

import (
	"errors"
	"fmt"
)

// ErrEmptyPrompt is returned when generation is requested without a prompt.
var ErrEmptyPrompt = errors.New("empty prompt")

// ErrNoImage is the cause recorded when a successful response carries no image.
var ErrNoImage = errors.New("no image generated")

// ErrorKind classifies generation failures.
type ErrorKind string

const (
	// ErrorTransport indicates the request never produced an HTTP response.
	// Examples: DNS failure, connection refused, timeout.
	ErrorTransport ErrorKind = "transport"

	// ErrorVendor indicates the vendor answered with a non-success status.
	ErrorVendor ErrorKind = "vendor"

	// ErrorMalformed indicates a success status whose body lacks the expected field.
	ErrorMalformed ErrorKind = "malformed_response"

	// ErrorConfiguration indicates the call could not be attempted, most often
	// because a required credential is missing.
	ErrorConfiguration ErrorKind = "configuration"
)

// GenerationError is the terminal failure of one generation call.
type GenerationError struct {
	Provider Provider
	Kind     ErrorKind
	Msg      string
	Code     int   // vendor HTTP status code, 0 if not applicable
	Cause    error // underlying error
}

// Error returns the error message.
func (e *GenerationError) Error() string {
	msg := fmt.Sprintf("%s generation failed", e.Provider.DisplayName())
	if e.Code != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.Code)
	}
	if e.Msg != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Msg)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the vendor HTTP status code, or 0 if not applicable.
func (e *GenerationError) StatusCode() int {
	return e.Code
}

// NewTransportError wraps a failure to reach the vendor.
func NewTransportError(p Provider, cause error) *GenerationError {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &GenerationError{Provider: p, Kind: ErrorTransport, Msg: msg, Cause: cause}
}

// NewVendorError records a non-success vendor response.
func NewVendorError(p Provider, statusCode int, msg string) *GenerationError {
	return &GenerationError{Provider: p, Kind: ErrorVendor, Msg: msg, Code: statusCode}
}

// NewMalformedError records a success response with an unexpected shape.
func NewMalformedError(p Provider, statusCode int, cause error) *GenerationError {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &GenerationError{Provider: p, Kind: ErrorMalformed, Msg: msg, Code: statusCode, Cause: cause}
}

// NewConfigurationError records a call that could not be attempted.
func NewConfigurationError(p Provider, msg string) *GenerationError {
	return &GenerationError{Provider: p, Kind: ErrorConfiguration, Msg: msg}
}

// KindOf returns the kind of a GenerationError anywhere in err's chain, or "".
func KindOf(err error) ErrorKind {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}

// IsConfiguration returns true if err is a configuration error.
func IsConfiguration(err error) bool {
	return KindOf(err) == ErrorConfiguration
}

// IsVendor returns true if err is a vendor error.
func IsVendor(err error) bool {
	return KindOf(err) == ErrorVendor
}

// StatusCodeOf returns the vendor HTTP status code carried by err, or 0.
func StatusCodeOf(err error) int {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return 0
}

// ImageError represents an error while loading generated image bytes.
type ImageError struct {
	Op  string // "decode" or "fetch"
	URL string // the image URL or "base64"
	Err error  // underlying error
}

// Error returns a formatted error message describing the image processing failure.
func (e *ImageError) Error() string {
	return fmt.Sprintf("image %s error for %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ImageError) Unwrap() error {
	return e.Err
}
