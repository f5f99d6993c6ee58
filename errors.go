package recode

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnknownEncoding indicates no search function recognized a name.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrEncode indicates text could not be encoded under the policy.
	ErrEncode = errors.New("encode failed")

	// ErrDecode indicates bytes could not be decoded under the policy.
	ErrDecode = errors.New("decode failed")

	// ErrInvalidPolicy indicates an unknown error policy.
	ErrInvalidPolicy = errors.New("invalid error policy")

	// ErrNoIncrementalDecoder indicates a codec has no streaming decoder.
	ErrNoIncrementalDecoder = errors.New("no incremental decoder")

	// ErrNilSearch indicates a nil search function was registered.
	ErrNilSearch = errors.New("nil search function")

	// ErrNilCodec indicates a nil codec or a codec without encode/decode.
	ErrNilCodec = errors.New("nil codec")
)

// LookupError represents a failure to resolve a codec by name.
// It wraps ErrUnknownEncoding or ErrNoIncrementalDecoder.
type LookupError struct {
	Err        error  // Underlying sentinel error
	Name       string // Name as requested
	Normalized string // Name after normalization
}

func (e *LookupError) Error() string {
	if e.Name == e.Normalized || e.Normalized == "" {
		return fmt.Sprintf("%s: %q", e.Err.Error(), e.Name)
	}
	return fmt.Sprintf("%s: %q (normalized %q)", e.Err.Error(), e.Name, e.Normalized)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// CodecError represents a malformed sequence rejected by a codec.
// Start and End are byte offsets into the input, End exclusive.
type CodecError struct {
	Err    error  // Underlying sentinel error (ErrEncode, ErrDecode)
	Codec  string // Codec name
	Start  int    // Offset of the first offending byte
	End    int    // Offset past the last offending byte
	Reason string // Human readable reason
	Cause  error  // Original error from an underlying library, if any
}

func (e *CodecError) Error() string {
	op := "decode"
	if errors.Is(e.Err, ErrEncode) {
		op = "encode"
	}
	var msg string
	switch {
	case e.End-e.Start > 1:
		msg = fmt.Sprintf("%s: cannot %s bytes in position %d-%d: %s", e.Codec, op, e.Start, e.End-1, e.Reason)
	case e.End > e.Start:
		msg = fmt.Sprintf("%s: cannot %s byte in position %d: %s", e.Codec, op, e.Start, e.Reason)
	default:
		msg = fmt.Sprintf("%s: cannot %s: %s", e.Codec, op, e.Reason)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the cause to errors.Is and errors.As.
func (e *CodecError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// newLookupError creates a LookupError for unresolved names.
func newLookupError(name string) error {
	return &LookupError{
		Err:        ErrUnknownEncoding,
		Name:       name,
		Normalized: Normalize(name),
	}
}

// NewDecodeError creates a CodecError for a rejected byte range.
func NewDecodeError(codec string, start, end int, reason string) error {
	return &CodecError{
		Err:    ErrDecode,
		Codec:  codec,
		Start:  start,
		End:    end,
		Reason: reason,
	}
}

// NewEncodeError creates a CodecError for an unencodable input range.
func NewEncodeError(codec string, start, end int, reason string) error {
	return &CodecError{
		Err:    ErrEncode,
		Codec:  codec,
		Start:  start,
		End:    end,
		Reason: reason,
	}
}

// WrapDecodeError creates a CodecError carrying the cause from an
// underlying library (decompression, decryption, armor parsing).
func WrapDecodeError(codec, reason string, cause error) error {
	return &CodecError{
		Err:    ErrDecode,
		Codec:  codec,
		Reason: reason,
		Cause:  cause,
	}
}

// WrapEncodeError is the encode counterpart of WrapDecodeError.
func WrapEncodeError(codec, reason string, cause error) error {
	return &CodecError{
		Err:    ErrEncode,
		Codec:  codec,
		Reason: reason,
		Cause:  cause,
	}
}
