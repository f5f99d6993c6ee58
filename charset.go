package recode

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Reasons reported in CodecError.
const (
	reasonTruncated    = "unexpected end of data"
	reasonStartByte    = "invalid start byte"
	reasonContinuation = "invalid continuation byte"
	reasonOrdinal      = "ordinal not in range(128)"
	reasonUndefined    = "character maps to <undefined>"
	reasonInvalidUTF8  = "input is not valid UTF-8"
	reasonLowSurrogate = "unexpected low surrogate"
	reasonSurrogate    = "illegal UTF-16 surrogate"
)

// decodeRuneFunc decodes the first rune of p, which is never empty.
// A non-empty reason marks size bytes as invalid; reasonTruncated means p
// may be the prefix of a valid sequence.
type decodeRuneFunc func(p []byte) (r rune, size int, reason string)

// encodeRuneFunc appends the encoding of r to dst, or reports false when r
// is not representable.
type encodeRuneFunc func(dst []byte, r rune) ([]byte, bool)

// detectFunc picks a decodeRuneFunc from the start of a stream and reports
// how many bytes to skip. ok is false when more input is needed.
type detectFunc func(p []byte, final bool) (fn decodeRuneFunc, skip int, ok bool)

// charset is a base character encoding driven rune by rune.
type charset struct {
	name       string
	aliases    []string
	decodeRune decodeRuneFunc
	encodeRune encodeRuneFunc
	bom        []byte     // written at the start of every encode session
	detect     detectFunc // optional, replaces decodeRune per session
	reason     string     // reported for unencodable runes
}

func (cs *charset) unencodable() string {
	if cs.reason != "" {
		return cs.reason
	}
	return reasonUndefined
}

func (cs *charset) codec() *Codec {
	return &Codec{
		Name:    cs.name,
		Aliases: cs.aliases,
		Encode:  cs.encode,
		Decode:  cs.decode,
		NewIncrementalDecoder: func(policy ErrorPolicy) IncrementalDecoder {
			return cs.newDecoder(policy)
		},
		NewIncrementalEncoder: func(policy ErrorPolicy) IncrementalEncoder {
			return cs.newEncoder(policy)
		},
	}
}

func (cs *charset) decode(data []byte, policy ErrorPolicy) (string, int, error) {
	text, err := cs.newDecoder(policy).Decode(data, true)
	if err != nil {
		return "", 0, err
	}
	return text, len(data), nil
}

func (cs *charset) encode(text string, policy ErrorPolicy) ([]byte, int, error) {
	out, err := cs.newEncoder(policy).Encode(text, true)
	if err != nil {
		return nil, 0, err
	}
	return out, len(text), nil
}

func (cs *charset) newDecoder(policy ErrorPolicy) *charsetDecoder {
	return &charsetDecoder{cs: cs, policy: policy.orStrict()}
}

func (cs *charset) newEncoder(policy ErrorPolicy) *charsetEncoder {
	return &charsetEncoder{cs: cs, policy: policy.orStrict()}
}

// charsetDecoder holds back incomplete trailing sequences between chunks.
type charsetDecoder struct {
	cs      *charset
	policy  ErrorPolicy
	fn      decodeRuneFunc
	pending []byte
	offset  int // absolute offset of pending[0]
}

func (d *charsetDecoder) Decode(chunk []byte, final bool) (string, error) {
	p := append(d.pending, chunk...)
	d.pending = nil

	start := 0
	if d.fn == nil {
		if d.cs.detect == nil {
			d.fn = d.cs.decodeRune
		} else {
			fn, skip, ok := d.cs.detect(p, final)
			if !ok {
				d.pending = p
				return "", nil
			}
			d.fn, start = fn, skip
		}
	}

	var sb strings.Builder
	sb.Grow(len(p))
	i := start
	for i < len(p) {
		r, size, reason := d.fn(p[i:])
		if reason == "" {
			sb.WriteRune(r)
			i += size
			continue
		}
		if reason == reasonTruncated && !final {
			break
		}
		switch d.policy {
		case Replace:
			sb.WriteRune(utf8.RuneError)
		case Ignore:
		default:
			err := NewDecodeError(d.cs.name, d.offset+i, d.offset+i+size, reason)
			d.Reset()
			return "", err
		}
		i += size
	}

	if final {
		d.Reset()
	} else {
		d.pending = append([]byte(nil), p[i:]...)
		d.offset += i
	}
	return sb.String(), nil
}

func (d *charsetDecoder) Reset() {
	d.fn = nil
	d.pending = nil
	d.offset = 0
}

// charsetEncoder holds back incomplete trailing UTF-8 between chunks.
type charsetEncoder struct {
	cs      *charset
	policy  ErrorPolicy
	started bool
	pending string
	offset  int
}

func (e *charsetEncoder) Encode(text string, final bool) ([]byte, error) {
	s := e.pending + text
	e.pending = ""

	out := make([]byte, 0, len(s)+len(e.cs.bom))
	if !e.started {
		out = append(out, e.cs.bom...)
		e.started = true
	}

	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			if !final && !utf8.FullRuneInString(s[i:]) {
				break
			}
			var stop bool
			if out, stop = e.substitute(out); stop {
				err := NewEncodeError(e.cs.name, e.offset+i, e.offset+i+1, reasonInvalidUTF8)
				e.Reset()
				return nil, err
			}
			i++
			continue
		}
		enc, ok := e.cs.encodeRune(out, r)
		if !ok {
			var stop bool
			if out, stop = e.substitute(out); stop {
				err := NewEncodeError(e.cs.name, e.offset+i, e.offset+i+size, e.cs.unencodable())
				e.Reset()
				return nil, err
			}
			i += size
			continue
		}
		out = enc
		i += size
	}

	if final {
		e.Reset()
	} else {
		e.pending = s[i:]
		e.offset += i
	}
	return out, nil
}

// substitute applies the policy to an unencodable range and reports
// whether the encoder must stop.
func (e *charsetEncoder) substitute(out []byte) ([]byte, bool) {
	switch e.policy {
	case Replace:
		if enc, ok := e.cs.encodeRune(out, '?'); ok {
			return enc, false
		}
		return out, false
	case Ignore:
		return out, false
	default:
		return out, true
	}
}

func (e *charsetEncoder) Reset() {
	e.started = false
	e.pending = ""
	e.offset = 0
}

func decodeUTF8Rune(p []byte) (rune, int, string) {
	r, size := utf8.DecodeRune(p)
	if r != utf8.RuneError || size > 1 {
		return r, size, ""
	}
	if !utf8.FullRune(p) {
		return 0, len(p), reasonTruncated
	}
	if b := p[0]; b < 0xC2 || b > 0xF4 {
		return 0, 1, reasonStartByte
	}
	return 0, 1, reasonContinuation
}

func encodeUTF8Rune(dst []byte, r rune) ([]byte, bool) {
	return utf8.AppendRune(dst, r), true
}

func decodeASCIIRune(p []byte) (rune, int, string) {
	if p[0] >= utf8.RuneSelf {
		return 0, 1, reasonOrdinal
	}
	return rune(p[0]), 1, ""
}

func encodeASCIIRune(dst []byte, r rune) ([]byte, bool) {
	if r >= utf8.RuneSelf {
		return dst, false
	}
	return append(dst, byte(r)), true
}

func decodeCharmap(cm *charmap.Charmap) decodeRuneFunc {
	return func(p []byte) (rune, int, string) {
		r := cm.DecodeByte(p[0])
		if r == utf8.RuneError {
			return 0, 1, reasonUndefined
		}
		return r, 1, ""
	}
}

func encodeCharmap(cm *charmap.Charmap) encodeRuneFunc {
	return func(dst []byte, r rune) ([]byte, bool) {
		b, ok := cm.EncodeRune(r)
		if !ok {
			return dst, false
		}
		return append(dst, b), true
	}
}

func decodeUTF16(order binary.ByteOrder) decodeRuneFunc {
	return func(p []byte) (rune, int, string) {
		if len(p) < 2 {
			return 0, len(p), reasonTruncated
		}
		u := rune(order.Uint16(p))
		switch {
		case !utf16.IsSurrogate(u):
			return u, 2, ""
		case u >= 0xDC00:
			return 0, 2, reasonLowSurrogate
		}
		if len(p) < 4 {
			return 0, len(p), reasonTruncated
		}
		r := utf16.DecodeRune(u, rune(order.Uint16(p[2:])))
		if r == utf8.RuneError {
			return 0, 2, reasonSurrogate
		}
		return r, 4, ""
	}
}

func encodeUTF16(order binary.AppendByteOrder) encodeRuneFunc {
	return func(dst []byte, r rune) ([]byte, bool) {
		if r >= 0x10000 {
			r1, r2 := utf16.EncodeRune(r)
			dst = order.AppendUint16(dst, uint16(r1)) // #nosec G115 -- surrogates fit in 16 bits
			return order.AppendUint16(dst, uint16(r2)), true
		}
		return order.AppendUint16(dst, uint16(r)), true // #nosec G115 -- checked above
	}
}

// detectUTF16BOM consumes a byte order mark, defaulting to little endian.
func detectUTF16BOM(p []byte, final bool) (decodeRuneFunc, int, bool) {
	if len(p) < 2 {
		if !final {
			return nil, 0, false
		}
		return decodeUTF16(binary.LittleEndian), 0, true
	}
	switch {
	case p[0] == 0xFF && p[1] == 0xFE:
		return decodeUTF16(binary.LittleEndian), 2, true
	case p[0] == 0xFE && p[1] == 0xFF:
		return decodeUTF16(binary.BigEndian), 2, true
	}
	return decodeUTF16(binary.LittleEndian), 0, true
}

func singleByte(name string, cm *charmap.Charmap, aliases ...string) *charset {
	return &charset{
		name:       name,
		aliases:    aliases,
		decodeRune: decodeCharmap(cm),
		encodeRune: encodeCharmap(cm),
	}
}

// Built-in charsets.
var (
	// UTF8 is the UTF-8 charset.
	UTF8 = (&charset{
		name:       "utf-8",
		aliases:    []string{"utf8", "u8", "utf"},
		decodeRune: decodeUTF8Rune,
		encodeRune: encodeUTF8Rune,
	}).codec()

	// ASCII is the 7-bit US-ASCII charset.
	ASCII = (&charset{
		name:       "ascii",
		aliases:    []string{"us-ascii", "646"},
		decodeRune: decodeASCIIRune,
		encodeRune: encodeASCIIRune,
		reason:     reasonOrdinal,
	}).codec()

	// Latin1 is ISO-8859-1.
	Latin1 = singleByte("latin-1", charmap.ISO8859_1, "latin1", "iso-8859-1", "iso8859-1", "l1").codec()

	// UTF16 writes a little-endian byte order mark and honors either mark
	// on decode, defaulting to little endian.
	UTF16 = (&charset{
		name:       "utf-16",
		aliases:    []string{"utf16"},
		decodeRune: decodeUTF16(binary.LittleEndian),
		encodeRune: encodeUTF16(binary.LittleEndian),
		bom:        []byte{0xFF, 0xFE},
		detect:     detectUTF16BOM,
	}).codec()

	// UTF16LE is little-endian UTF-16 without a byte order mark.
	UTF16LE = (&charset{
		name:       "utf-16-le",
		aliases:    []string{"utf-16le", "utf16le"},
		decodeRune: decodeUTF16(binary.LittleEndian),
		encodeRune: encodeUTF16(binary.LittleEndian),
	}).codec()

	// UTF16BE is big-endian UTF-16 without a byte order mark.
	UTF16BE = (&charset{
		name:       "utf-16-be",
		aliases:    []string{"utf-16be", "utf16be"},
		decodeRune: decodeUTF16(binary.BigEndian),
		encodeRune: encodeUTF16(binary.BigEndian),
	}).codec()
)

var builtinCharsets = []*Codec{
	UTF8,
	ASCII,
	Latin1,
	singleByte("iso-8859-15", charmap.ISO8859_15, "latin-9", "latin9", "l9").codec(),
	singleByte("cp1252", charmap.Windows1252, "windows-1252").codec(),
	singleByte("cp437", charmap.CodePage437, "ibm437", "437").codec(),
	singleByte("koi8-r", charmap.KOI8R).codec(),
	singleByte("mac-roman", charmap.Macintosh, "macroman", "macintosh").codec(),
	UTF16,
	UTF16LE,
	UTF16BE,
}

var charsetIndex = func() map[string]*Codec {
	idx := make(map[string]*Codec)
	for _, c := range builtinCharsets {
		for _, n := range c.names() {
			idx[n] = c
		}
	}
	return idx
}()

// Charsets is the search function for the built-in charsets.
func Charsets(name string) (*Codec, bool) {
	c, ok := charsetIndex[name]
	return c, ok
}

// CharsetNames returns the canonical names of the built-in charsets.
func CharsetNames() []string {
	names := make([]string, 0, len(builtinCharsets))
	for _, c := range builtinCharsets {
		names = append(names, c.Name)
	}
	return names
}
