package loader

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchema is matched by every *SchemaError.
	ErrSchema = errors.New("medal table schema")
	ErrOpen   = errors.New("open medal table")
	ErrRead   = errors.New("read medal table")
	ErrWrite  = errors.New("write medal table")
)

// SchemaError reports required columns absent from the header. It is a
// configuration problem and should abort startup.
type SchemaError struct {
	Missing []string
	Header  []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing columns %s (header: %q)", ErrSchema, strings.Join(e.Missing, ", "), e.Header)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }
