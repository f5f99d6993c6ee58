// Package rot13 provides a letter-rotation codec over UTF-8.
//
// Unlike reversal, rotation maps each code point independently, so the
// incremental decoder streams output chunk by chunk.
package rot13

import (
	"github.com/zoobzio/recode"
)

// Name is the codec name.
const Name = "rot13"

// New returns the ROT13 codec. Only ASCII letters are rotated; every other
// code point passes through. UTF-8 errors are reported by the base charset.
func New() *recode.Codec {
	c := &recode.Codec{
		Name:    Name,
		Aliases: []string{"rot-13"},
		Encode: func(text string, policy recode.ErrorPolicy) ([]byte, int, error) {
			out, _, err := recode.UTF8.Encode(Rotate(text), policy)
			if err != nil {
				return nil, 0, err
			}
			return out, len(text), nil
		},
		Decode: func(data []byte, policy recode.ErrorPolicy) (string, int, error) {
			text, n, err := recode.UTF8.Decode(data, policy)
			if err != nil {
				return "", 0, err
			}
			return Rotate(text), n, nil
		},
		NewIncrementalDecoder: func(policy recode.ErrorPolicy) recode.IncrementalDecoder {
			return &decoder{base: recode.UTF8.NewIncrementalDecoder(policy)}
		},
	}
	return c
}

// decoder rotates whatever the UTF-8 decoder releases.
type decoder struct {
	base recode.IncrementalDecoder
}

func (d *decoder) Decode(chunk []byte, final bool) (string, error) {
	text, err := d.base.Decode(chunk, final)
	if err != nil {
		return "", err
	}
	return Rotate(text), nil
}

func (d *decoder) Reset() {
	d.base.Reset()
}

// Rotate shifts ASCII letters by 13 places. Rotate is its own inverse.
// It works on bytes: ASCII letters never occur inside multi-byte UTF-8
// sequences, so other bytes, valid or not, pass through untouched.
func Rotate(s string) string {
	b := []byte(s)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z':
			b[i] = 'a' + (c-'a'+13)%26
		case c >= 'A' && c <= 'Z':
			b[i] = 'A' + (c-'A'+13)%26
		}
	}
	return string(b)
}
