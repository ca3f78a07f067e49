package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchema matches any *SchemaError.
	ErrSchema = errors.New("schema error")
	// ErrRowParse matches any *RowParseError.
	ErrRowParse = errors.New("row parse error")
	// ErrIO matches any *IOError.
	ErrIO = errors.New("io error")

	errFieldMissing = errors.New("field missing")
	errFieldEmpty   = errors.New("field empty")
	errNotFinite    = errors.New("value is not a finite number")
	errKeyTooLong   = fmt.Errorf("key longer than %d characters", KeyWidth)
)

// SchemaError reports required header columns that are absent from the input.
type SchemaError struct {
	Found   []string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input missing required headers [%s]. Found: [%s]",
		strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// Is reports whether target is ErrSchema.
func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// RowParseError describes a data row that was dropped. It never aborts a run.
type RowParseError struct {
	Line  int    // 1-based line in the input, 0 when unknown
	Key   string // raw key as it appeared in the row
	Field string // offending column
	Value string // raw field text
	Err   error
}

func (e *RowParseError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	fmt.Fprintf(&b, "key %q: %s %q: %v", e.Key, e.Field, e.Value, e.Err)
	return b.String()
}

// Is reports whether target is ErrRowParse.
func (e *RowParseError) Is(target error) bool { return target == ErrRowParse }

func (e *RowParseError) Unwrap() error { return e.Err }

// IOError reports a failure to open, read, or write a resource.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

// Is reports whether target is ErrIO.
func (e *IOError) Is(target error) bool { return target == ErrIO }

func (e *IOError) Unwrap() error { return e.Err }
