package sprite

import (
	"errors"
	"fmt"
	"strings"
)

// Wrap wraps an error by prepending additional text.
// The text can contain formatting parameters.
func Wrap(err error, msg string, v ...interface{}) error {
	msg = fmt.Sprintf(msg, v...)
	return fmt.Errorf("%v: %w", msg, err)
}

type configNotFound struct {
	path  string
	cause error
}

func (c configNotFound) Error() string {
	return fmt.Sprintf("config not found: %v: %v", c.path, c.cause)
}

func (c configNotFound) Unwrap() error {
	return c.cause
}

// IsConfigNotFound checks if the given error means that a configuration
// source does not exist or could not be read.
func IsConfigNotFound(err error) bool {
	var c configNotFound
	return errors.As(err, &c)
}

type configFormat struct {
	path  string
	cause error
}

func (c configFormat) Error() string {
	if c.path == "" {
		return fmt.Sprintf("malformed config: %v", c.cause)
	}
	return fmt.Sprintf("malformed config %v: %v", c.path, c.cause)
}

func (c configFormat) Unwrap() error {
	return c.cause
}

// IsConfigFormat checks if the given error means that a configuration
// source could not be parsed. The parser diagnostic is part of the message.
func IsConfigFormat(err error) bool {
	var c configFormat
	return errors.As(err, &c)
}

// ValidationError lists every problem found in a sheet configuration.
type ValidationError struct {
	// Missing holds the names of required fields that were absent.
	Missing []string
	// Problems holds one message per violation, including the missing fields.
	Problems []string
}

func (v *ValidationError) Error() string {
	return "invalid sheet config: " + strings.Join(v.Problems, "; ")
}

func (v *ValidationError) add(msg string, args ...interface{}) {
	v.Problems = append(v.Problems, fmt.Sprintf(msg, args...))
}

func (v *ValidationError) missing(field string) {
	v.Missing = append(v.Missing, field)
	v.add("missing required field %q", field)
}

func (v *ValidationError) empty() bool {
	return len(v.Problems) == 0
}

// IsValidationError checks if the given error is a *ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

type inputMissing struct {
	path  string
	cause error
}

func (i inputMissing) Error() string {
	return fmt.Sprintf("input directory missing: %v", i.path)
}

func (i inputMissing) Unwrap() error {
	return i.cause
}

// IsInputMissing checks if the given error means that the frame root
// directory does not exist.
func IsInputMissing(err error) bool {
	var i inputMissing
	return errors.As(err, &i)
}

type outputWrite struct {
	path  string
	cause error
}

func (o outputWrite) Error() string {
	return fmt.Sprintf("failed to write %v: %v", o.path, o.cause)
}

func (o outputWrite) Unwrap() error {
	return o.cause
}

// IsOutputWrite checks if the given error means that an output file could
// not be written.
func IsOutputWrite(err error) bool {
	var o outputWrite
	return errors.As(err, &o)
}

// WarningKind classifies non-fatal problems found during a composition.
type WarningKind int

const (
	// FrameDecode means a frame file could not be opened or decoded.
	FrameDecode WarningKind = iota
	// FrameNaming means a file name could not be parsed into animation and index.
	FrameNaming
	// DuplicateFrame means two files carry the same index for one animation.
	DuplicateFrame
	// UnexpectedAnimation means frames were found for an animation that is
	// not part of the configuration.
	UnexpectedAnimation
)

func (k WarningKind) String() string {
	switch k {
	case FrameDecode:
		return "frame-decode"
	case FrameNaming:
		return "frame-naming"
	case DuplicateFrame:
		return "duplicate-frame"
	case UnexpectedAnimation:
		return "unexpected-animation"
	default:
		return fmt.Sprintf("warning(%d)", int(k))
	}
}

// Warning is a problem that was recovered from.
type Warning struct {
	Kind    WarningKind
	Path    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%v: %v: %v", w.Kind, w.Path, w.Message)
}
