// Package reverse provides a codec that reverses text before handing it to a
// base charset.
package reverse

import (
	"errors"
	"unicode/utf8"

	"github.com/zoobzio/recode"
)

// Name is the default codec name.
const Name = "reverse"

type options struct {
	name    string
	aliases []string
	base    *recode.Codec
}

// Option configures the reverse codec.
type Option func(*options)

// WithName sets the codec name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithAliases sets additional names for the codec.
func WithAliases(aliases ...string) Option {
	return func(o *options) { o.aliases = append(o.aliases, aliases...) }
}

// WithBase sets the charset used for the byte conversion. Defaults to UTF-8.
func WithBase(base *recode.Codec) Option {
	return func(o *options) {
		if base != nil {
			o.base = base
		}
	}
}

// New returns a codec that reverses the code point sequence of its input and
// delegates the byte conversion to a base charset. Decoding runs the base
// charset first and reverses again. Base charset errors propagate, with
// encode offsets mapped back onto the caller's text.
//
// Reversal is not prefix-composable, so the incremental decoder buffers the
// whole input until the final chunk.
func New(opts ...Option) *recode.Codec {
	o := options{name: Name, base: recode.UTF8}
	for _, fn := range opts {
		fn(&o)
	}

	base := o.base
	c := &recode.Codec{
		Name:    o.name,
		Aliases: o.aliases,
		Encode: func(text string, policy recode.ErrorPolicy) ([]byte, int, error) {
			out, _, err := base.Encode(Runes(text), policy)
			if err != nil {
				return nil, 0, unreverse(err, len(text))
			}
			return out, len(text), nil
		},
		Decode: func(data []byte, policy recode.ErrorPolicy) (string, int, error) {
			text, n, err := base.Decode(data, policy)
			if err != nil {
				return "", 0, err
			}
			return Runes(text), n, nil
		},
	}
	c.NewIncrementalDecoder = func(policy recode.ErrorPolicy) recode.IncrementalDecoder {
		return recode.NewBufferedDecoder(c.Name, c.Decode, policy)
	}
	c.NewIncrementalEncoder = func(policy recode.ErrorPolicy) recode.IncrementalEncoder {
		return recode.NewBufferedEncoder(c.Name, c.Encode, policy)
	}
	return c
}

// unreverse maps a base charset error raised on the reversed text of length n
// back onto the original text.
func unreverse(err error, n int) error {
	var ce *recode.CodecError
	if !errors.As(err, &ce) || ce.End <= ce.Start {
		return err
	}
	mapped := *ce
	mapped.Start, mapped.End = n-ce.End, n-ce.Start
	return &mapped
}

// Runes returns s with its code points in reverse order. Bytes that are not
// valid UTF-8 are moved as single units, so the base charset still sees and
// judges them.
func Runes(s string) string {
	out := make([]byte, len(s))
	end := len(s)
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		copy(out[end-size:end], s[i:i+size])
		end -= size
		i += size
	}
	return string(out)
}
