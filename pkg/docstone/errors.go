package docstone

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes a docstone error.
type ErrorKind string

const (
	ErrorKindValidation        ErrorKind = "validation"
	ErrorKindIO                ErrorKind = "io"
	ErrorKindParsing           ErrorKind = "parsing"
	ErrorKindOCR               ErrorKind = "ocr"
	ErrorKindSerialization     ErrorKind = "serialization"
	ErrorKindMissingDependency ErrorKind = "missing_dependency"
	ErrorKindPlugin            ErrorKind = "plugin"
	ErrorKindUnsupportedFormat ErrorKind = "unsupported_format"
	ErrorKindRuntime           ErrorKind = "runtime"
)

// DocstoneError is implemented by every error type this package returns.
type DocstoneError interface {
	error
	Kind() ErrorKind
}

type baseError struct {
	kind    ErrorKind
	message string
	cause   error
}

func (e *baseError) Error() string   { return e.message }
func (e *baseError) Kind() ErrorKind { return e.kind }
func (e *baseError) Unwrap() error   { return e.cause }

// ValidationError reports input rejected before it crossed the boundary.
type ValidationError struct{ baseError }

// IOError reports a filesystem failure, usually surfaced from the engine.
type IOError struct{ baseError }

// ParsingError reports malformed input or an unsupported document structure.
type ParsingError struct{ baseError }

// OCRError reports a failure inside an OCR backend.
type OCRError struct{ baseError }

// SerializationError reports JSON encode/decode failures on either side of
// the wire.
type SerializationError struct{ baseError }

// MissingDependencyError reports that the engine, or something it needs, is
// not installed.
type MissingDependencyError struct {
	baseError
	Dependency string
}

// PluginError reports a failure inside a registered callback.
type PluginError struct {
	baseError
	PluginName string
}

// UnsupportedFormatError reports a document format the engine cannot handle.
type UnsupportedFormatError struct {
	baseError
	Format string
}

// RuntimeError wraps native failures that fit no narrower category.
type RuntimeError struct{ baseError }

func makeBaseError(kind ErrorKind, message string, cause error) baseError {
	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = "unknown error"
	}
	if !strings.HasPrefix(strings.ToLower(msg), "docstone:") {
		msg = "docstone: " + msg
	}
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return baseError{kind: kind, message: msg, cause: cause}
}

func newValidationError(message string, cause error) *ValidationError {
	return &ValidationError{makeBaseError(ErrorKindValidation, message, cause)}
}

func newIOError(message string, cause error) *IOError {
	return &IOError{makeBaseError(ErrorKindIO, message, cause)}
}

func newParsingError(message string, cause error) *ParsingError {
	return &ParsingError{makeBaseError(ErrorKindParsing, message, cause)}
}

func newOCRError(message string, cause error) *OCRError {
	return &OCRError{makeBaseError(ErrorKindOCR, message, cause)}
}

func newSerializationError(message string, cause error) *SerializationError {
	return &SerializationError{makeBaseError(ErrorKindSerialization, message, cause)}
}

func newMissingDependencyError(dependency, message string, cause error) *MissingDependencyError {
	if strings.TrimSpace(message) == "" {
		message = fmt.Sprintf("missing dependency: %s", dependency)
	}
	return &MissingDependencyError{
		baseError:  makeBaseError(ErrorKindMissingDependency, message, cause),
		Dependency: dependency,
	}
}

func newPluginError(plugin, message string, cause error) *PluginError {
	if strings.TrimSpace(message) == "" {
		message = "plugin error"
	}
	return &PluginError{
		baseError:  makeBaseError(ErrorKindPlugin, message, cause),
		PluginName: plugin,
	}
}

func newUnsupportedFormatError(format, message string, cause error) *UnsupportedFormatError {
	if strings.TrimSpace(message) == "" {
		message = fmt.Sprintf("unsupported format: %s", format)
	}
	return &UnsupportedFormatError{
		baseError: makeBaseError(ErrorKindUnsupportedFormat, message, cause),
		Format:    format,
	}
}

func newRuntimeError(message string, cause error) *RuntimeError {
	return &RuntimeError{makeBaseError(ErrorKindRuntime, message, cause)}
}

// classifyNativeError maps the engine's last-error message onto a typed
// error. The engine prefixes messages with a stable category tag; anything
// unrecognized degrades to RuntimeError without losing the original text.
func classifyNativeError(message string) error {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return newRuntimeError("unknown error", nil)
	}

	switch {
	case strings.HasPrefix(trimmed, "Validation error:"):
		return newValidationError(trimmed, nil)
	case strings.HasPrefix(trimmed, "IO error:"):
		return newIOError(trimmed, nil)
	case strings.HasPrefix(trimmed, "Parsing error:"):
		return newParsingError(trimmed, nil)
	case strings.HasPrefix(trimmed, "OCR error:"):
		return newOCRError(trimmed, nil)
	case strings.HasPrefix(trimmed, "Serialization error:"):
		return newSerializationError(trimmed, nil)
	case strings.HasPrefix(trimmed, "Missing dependency:"):
		dep := strings.TrimSpace(trimmed[len("Missing dependency:"):])
		return newMissingDependencyError(dep, trimmed, nil)
	case strings.HasPrefix(trimmed, "Plugin error in "):
		return newPluginError(parsePluginName(trimmed), trimmed, nil)
	case strings.HasPrefix(trimmed, "Unsupported format:"):
		format := strings.TrimSpace(trimmed[len("Unsupported format:"):])
		return newUnsupportedFormatError(format, trimmed, nil)
	}

	return newRuntimeError(trimmed, nil)
}

// parsePluginName pulls the quoted plugin name out of
// "Plugin error in 'name': ..." messages.
func parsePluginName(message string) string {
	start := strings.Index(message, "'")
	if start == -1 {
		return ""
	}
	rest := message[start+1:]
	end := strings.Index(rest, "'")
	if end == -1 {
		return ""
	}
	return rest[:end]
}
