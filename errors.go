package imagechat

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a submission or configuration failed validation.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a message with the given ID is not in the log.
	ErrNotFound = errors.New("message not found")

	// ErrRegenerateNotImplemented is returned by Regenerate until quick
	// retry is supported.
	ErrRegenerateNotImplemented = errors.New("regenerate not implemented")

	// ErrUnsupportedImage indicates an attachment is not a supported image type.
	ErrUnsupportedImage = errors.New("unsupported image type")

	// ErrImageTooLarge indicates an attachment exceeds MaxAttachmentSize.
	ErrImageTooLarge = errors.New("image exceeds maximum size")
)

// ConfigurationError reports a missing or invalid process configuration
// value, such as the API credential.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("API key not configured: set the %s environment variable", e.Key)
}

// FileReadError reports a local image that could not be read or encoded.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read image %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// GenerationError reports a failed call to the remote generation service:
// unreachable, rejected, or returning a response that cannot be parsed.
type GenerationError struct {
	Op          string
	Err         error
	RateLimited bool
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// errorKind names the error category for diagnostics.
func errorKind(err error) string {
	var (
		cfgErr  *ConfigurationError
		fileErr *FileReadError
		genErr  *GenerationError
	)
	switch {
	case errors.As(err, &cfgErr):
		return "configuration"
	case errors.As(err, &fileErr):
		return "file_read"
	case errors.As(err, &genErr):
		return "generation"
	default:
		return "unknown"
	}
}
