package source

import (
	"errors"
	"fmt"
)

// Loader errors.
var (
	// ErrEncodingConflict indicates a UTF-8 byte order mark together with a
	// declaration naming another encoding.
	ErrEncodingConflict = errors.New("encoding conflict")

	// ErrNonASCIIPreamble indicates a declaration preamble that is not
	// plain ASCII and so cannot pass through undecoded.
	ErrNonASCIIPreamble = errors.New("non-ASCII declaration preamble")

	// ErrPreambleTooLong indicates comment lines that may hold a
	// declaration running past MaxPreamble bytes.
	ErrPreambleTooLong = errors.New("declaration lines too long")
)

// LoadError represents a failure to load a source file.
type LoadError struct {
	Name     string // File name or path
	Encoding string // Encoding in use, if known
	Err      error  // Underlying error
}

func (e *LoadError) Error() string {
	if e.Encoding == "" {
		return fmt.Sprintf("load %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("load %s (%s): %v", e.Name, e.Encoding, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
