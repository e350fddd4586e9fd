// Package errors provides structured error handling for the SoA engine
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeColumnLengthMismatch marks a broken column-length invariant.
	// It indicates a generator or manual-construction bug and is not recoverable.
	ErrorTypeColumnLengthMismatch ErrorType = "column_length_mismatch"
	// ErrorTypeIndexOutOfRange represents an invalid row index
	ErrorTypeIndexOutOfRange ErrorType = "index_out_of_range"
	// ErrorTypeShardIndexOutOfRange represents an invalid shard index
	ErrorTypeShardIndexOutOfRange ErrorType = "shard_index_out_of_range"
	// ErrorTypeSchemaMismatch represents a batch whose schema differs from the expected one
	ErrorTypeSchemaMismatch ErrorType = "schema_mismatch"
	// ErrorTypeColumnNotFound represents a field missing from a decoded batch
	ErrorTypeColumnNotFound ErrorType = "column_not_found"
	// ErrorTypeTypeConversion represents an enumeration code outside its declared range
	ErrorTypeTypeConversion ErrorType = "type_conversion"
	// ErrorTypeSerialization represents columnar format errors
	ErrorTypeSerialization ErrorType = "serialization"
	// ErrorTypeIO represents filesystem errors
	ErrorTypeIO ErrorType = "io"
	// ErrorTypeTaskJoin represents an off-goroutine task that failed to complete
	ErrorTypeTaskJoin ErrorType = "task_join"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the error, or any error it wraps, is of the given type
func IsType(err error, errType ErrorType) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Type == errType {
			return true
		}
		err = e.Cause
	}
	return false
}

// TypeOf returns the type of the outermost structured error, or "" if err is not one
func TypeOf(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Type
}

// IndexOutOfRange reports a row index at or beyond length
func IndexOutOfRange(index, length int) *Error {
	return &Error{
		Type:    ErrorTypeIndexOutOfRange,
		Message: fmt.Sprintf("row index %d out of range [0, %d)", index, length),
		Details: map[string]interface{}{"index": index, "len": length},
		Stack:   captureStack(2),
	}
}

// ShardIndexOutOfRange reports a shard index at or beyond the shard count
func ShardIndexOutOfRange(index, count int) *Error {
	return &Error{
		Type:    ErrorTypeShardIndexOutOfRange,
		Message: fmt.Sprintf("shard index %d out of range [0, %d)", index, count),
		Details: map[string]interface{}{"index": index, "shards": count},
		Stack:   captureStack(2),
	}
}

// ColumnLengthMismatch reports a column whose length differs from the first column
func ColumnLengthMismatch(column string, got, want int) *Error {
	return &Error{
		Type:    ErrorTypeColumnLengthMismatch,
		Message: fmt.Sprintf("column %s has %d rows, expected %d", column, got, want),
		Details: map[string]interface{}{"column": column, "len": got, "expected": want},
		Stack:   captureStack(2),
	}
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
