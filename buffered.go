package recode

import (
	"context"
	"strings"
)

// StreamState is the state of a buffered stream session.
type StreamState int

const (
	// Accumulating means chunks are being collected.
	Accumulating StreamState = iota

	// Flushed means the final chunk was seen and the buffer decoded.
	// The next call starts a fresh session.
	Flushed
)

func (s StreamState) String() string {
	switch s {
	case Accumulating:
		return "accumulating"
	case Flushed:
		return "flushed"
	default:
		return "unknown"
	}
}

// BufferedDecoder adapts a stateless DecodeFunc to the IncrementalDecoder
// contract for transforms whose output is not defined until the whole input
// is known. Non-final chunks are appended and produce no output; the final
// chunk decodes the accumulated buffer in one call.
//
// A session that never receives a final chunk never produces output.
// BufferedDecoder is not safe for concurrent use.
type BufferedDecoder struct {
	name   string
	decode DecodeFunc
	policy ErrorPolicy
	buf    []byte
	state  StreamState
}

// NewBufferedDecoder returns a BufferedDecoder for decode. name labels
// events and errors.
func NewBufferedDecoder(name string, decode DecodeFunc, policy ErrorPolicy) *BufferedDecoder {
	return &BufferedDecoder{
		name:   name,
		decode: decode,
		policy: policy.orStrict(),
	}
}

// Decode appends chunk. On the final chunk it decodes and clears the buffer,
// returning the full result.
func (d *BufferedDecoder) Decode(chunk []byte, final bool) (string, error) {
	if d.state == Flushed {
		d.state = Accumulating
	}
	d.buf = append(d.buf, chunk...)
	if !final {
		return "", nil
	}

	data := d.buf
	d.buf = nil
	d.state = Flushed

	text, _, err := d.decode(data, d.policy)
	emitStreamFlushed(context.Background(), d.name, len(data), err)
	if err != nil {
		return "", err
	}
	return text, nil
}

// Reset discards buffered input and starts a fresh session.
func (d *BufferedDecoder) Reset() {
	d.buf = nil
	d.state = Accumulating
}

// Buffered returns the number of bytes waiting for the final chunk.
func (d *BufferedDecoder) Buffered() int {
	return len(d.buf)
}

// State reports the session state.
func (d *BufferedDecoder) State() StreamState {
	return d.state
}

// BufferedEncoder is the encoding counterpart of BufferedDecoder.
type BufferedEncoder struct {
	name   string
	encode EncodeFunc
	policy ErrorPolicy
	buf    strings.Builder
	state  StreamState
}

// NewBufferedEncoder returns a BufferedEncoder for encode.
func NewBufferedEncoder(name string, encode EncodeFunc, policy ErrorPolicy) *BufferedEncoder {
	return &BufferedEncoder{
		name:   name,
		encode: encode,
		policy: policy.orStrict(),
	}
}

// Encode appends text. On the final call it encodes the accumulated text.
func (e *BufferedEncoder) Encode(text string, final bool) ([]byte, error) {
	if e.state == Flushed {
		e.state = Accumulating
	}
	e.buf.WriteString(text)
	if !final {
		return nil, nil
	}

	all := e.buf.String()
	e.buf.Reset()
	e.state = Flushed

	out, _, err := e.encode(all, e.policy)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Reset discards buffered input and starts a fresh session.
func (e *BufferedEncoder) Reset() {
	e.buf.Reset()
	e.state = Accumulating
}

// State reports the session state.
func (e *BufferedEncoder) State() StreamState {
	return e.state
}
