package recode

// EncodeFunc converts text into bytes under the given policy.
// It returns the encoded bytes and the number of input bytes consumed.
type EncodeFunc func(text string, policy ErrorPolicy) ([]byte, int, error)

// DecodeFunc converts bytes into text under the given policy.
// It returns the decoded text and the number of input bytes consumed.
type DecodeFunc func(data []byte, policy ErrorPolicy) (string, int, error)

// IncrementalDecoder decodes input delivered in chunks.
type IncrementalDecoder interface {
	// Decode consumes chunk and returns whatever text is now well defined.
	// final marks the last chunk of the session; implementations flush all
	// pending state on it.
	Decode(chunk []byte, final bool) (string, error)

	// Reset discards pending state and starts a fresh session.
	Reset()
}

// IncrementalEncoder encodes input delivered in chunks.
type IncrementalEncoder interface {
	// Encode consumes text and returns whatever bytes are now well defined.
	Encode(text string, final bool) ([]byte, error)

	// Reset discards pending state and starts a fresh session.
	Reset()
}

// Codec describes a named pair of transformations.
//
// Encode and Decode must be pure and mutual inverses for every input the
// policy accepts: Decode(Encode(x)) == x.
type Codec struct {
	// Name is the canonical codec name. It is normalized on lookup.
	Name string

	// Aliases are additional names resolving to this codec.
	Aliases []string

	Encode EncodeFunc
	Decode DecodeFunc

	// NewIncrementalDecoder is optional. Source loaders require it.
	NewIncrementalDecoder func(policy ErrorPolicy) IncrementalDecoder

	// NewIncrementalEncoder is optional.
	NewIncrementalEncoder func(policy ErrorPolicy) IncrementalEncoder
}

// IncrementalDecoder returns a new incremental decoder for the codec.
// It fails with ErrNoIncrementalDecoder when the codec supplies none.
func (c *Codec) IncrementalDecoder(policy ErrorPolicy) (IncrementalDecoder, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if c.NewIncrementalDecoder == nil {
		return nil, &LookupError{Err: ErrNoIncrementalDecoder, Name: c.Name, Normalized: Normalize(c.Name)}
	}
	return c.NewIncrementalDecoder(policy.orStrict()), nil
}

// IncrementalEncoder returns a new incremental encoder for the codec.
// Codecs without one get a BufferedEncoder over their stateless Encode.
func (c *Codec) IncrementalEncoder(policy ErrorPolicy) (IncrementalEncoder, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if c.NewIncrementalEncoder == nil {
		return NewBufferedEncoder(c.Name, c.Encode, policy.orStrict()), nil
	}
	return c.NewIncrementalEncoder(policy.orStrict()), nil
}

// names returns the normalized name and aliases.
func (c *Codec) names() []string {
	out := make([]string, 0, 1+len(c.Aliases))
	out = append(out, Normalize(c.Name))
	for _, a := range c.Aliases {
		out = append(out, Normalize(a))
	}
	return out
}
