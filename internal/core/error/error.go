package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
	// EmptyContentMessage is returned when an upload batch yields no usable text.
	EmptyContentMessage = "no usable content in uploaded files"
	// IndexBuildErrorMessage describes a failed vector index build.
	IndexBuildErrorMessage = "failed to build study material index"
	// ModelErrorMessage describes a failed language model call.
	ModelErrorMessage = "language model call failed"
	// QuizParseErrorMessage describes quiz output that did not match the expected shape.
	QuizParseErrorMessage = "quiz output is not valid quiz data"
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// WrapEmptyContent marks an upload batch that produced no documents.
func WrapEmptyContent(err error) *AppError {
	return New(err, http.StatusUnprocessableEntity, EmptyContentMessage)
}

// WrapIndexBuild marks a failed vector index build for an upload batch.
func WrapIndexBuild(err error) *AppError {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, IndexBuildErrorMessage)
}

// WrapModel marks a failed chat model invocation.
func WrapModel(err error) *AppError {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, ModelErrorMessage)
}

// WrapQuizParse marks quiz model output that failed structured parsing.
func WrapQuizParse(err error) *AppError {
	if err == nil {
		return nil
	}
	return New(err, http.StatusUnprocessableEntity, QuizParseErrorMessage)
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
