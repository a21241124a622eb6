package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AppError represents application-specific errors.
// Kind is one of the sentinel errors below and is what errors.Is matches.
type AppError struct {
	Code    string
	Message string
	Kind    error
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// Error kinds of the intake pipeline.
var (
	ErrValidation      = errors.New("validation failed")
	ErrExtraction      = errors.New("text extraction failed")
	ErrAIUnavailable   = errors.New("ai extractor unavailable")
	ErrAIResponseParse = errors.New("ai response unusable")
	ErrUnexpected      = errors.New("unexpected error")
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
)

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeExtraction      = "EXTRACTION_ERROR"
	CodeAIUnavailable   = "AI_UNAVAILABLE"
	CodeAIResponseParse = "AI_RESPONSE_PARSE_ERROR"
	CodeUnexpected      = "UNEXPECTED_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeConfig          = "CONFIG_ERROR"
)

// NewAppError builds an AppError of the given kind.
func NewAppError(code, message string, kind, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Kind:    kind,
		Cause:   cause,
	}
}

func NewValidationError(message string, cause error) error {
	return NewAppError(CodeValidation, message, ErrValidation, cause)
}

func NewExtractionError(message string, cause error) error {
	return NewAppError(CodeExtraction, message, ErrExtraction, cause)
}

func NewAIUnavailableError(message string, cause error) error {
	return NewAppError(CodeAIUnavailable, message, ErrAIUnavailable, cause)
}

func NewAIResponseParseError(message string, cause error) error {
	return NewAppError(CodeAIResponseParse, message, ErrAIResponseParse, cause)
}

func NewUnexpectedError(message string, cause error) error {
	return NewAppError(CodeUnexpected, message, ErrUnexpected, cause)
}

func NewNotFoundError(message string) error {
	return NewAppError(CodeNotFound, message, ErrNotFound, nil)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// KindOf returns the kind of the outermost AppError in err's chain, or nil when
// there is none. Causes wrapped deeper do not change how err is classified.
func KindOf(err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return nil
}

// IsRecoverableAI reports whether err lets the fallback chain switch to the rules tier.
func IsRecoverableAI(err error) bool {
	kind := KindOf(err)
	return kind == ErrAIUnavailable || kind == ErrAIResponseParse
}

// StatusCode maps an error to the gRPC code reported for a failed upload.
func StatusCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	switch KindOf(err) {
	case ErrValidation, ErrInvalidInput:
		return codes.InvalidArgument
	case ErrExtraction:
		return codes.FailedPrecondition
	case ErrAIUnavailable:
		return codes.Unavailable
	case ErrAIResponseParse:
		return codes.DataLoss
	case ErrNotFound:
		return codes.NotFound
	case ErrUnexpected:
		return codes.Internal
	}
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	return codes.Internal
}

// StatusError converts err into a gRPC status error carrying StatusCode(err).
func StatusError(err error) error {
	if err == nil {
		return nil
	}
	return status.Error(StatusCode(err), err.Error())
}
