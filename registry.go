package recode

import (
	"context"
	"sync"
	"time"
)

// SearchFunc resolves a normalized name to a codec.
// It returns false when the name is not recognized.
type SearchFunc func(name string) (*Codec, bool)

// Registry resolves codec names through an ordered list of search functions.
// The first function that recognizes a name wins. Found codecs are cached by
// normalized name; misses are not, so a later registration can satisfy them.
//
// Registries are safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	search []SearchFunc
	cache  map[string]*Codec
}

// NewRegistry creates a registry consulting the given search functions in
// order. Nil entries are skipped.
func NewRegistry(search ...SearchFunc) *Registry {
	r := &Registry{cache: make(map[string]*Codec)}
	for _, fn := range search {
		if fn != nil {
			r.search = append(r.search, fn)
		}
	}
	return r
}

// Register appends a search function. Functions registered earlier take
// precedence. Registering the same function twice is not detected; the
// first copy already wins.
func (r *Registry) Register(fn SearchFunc) error {
	if fn == nil {
		return ErrNilSearch
	}

	r.mu.Lock()
	r.search = append(r.search, fn)
	n := len(r.search)
	r.mu.Unlock()

	emitSearchRegistered(context.Background(), n)
	return nil
}

// Lookup normalizes name and returns the first codec a search function
// yields for it. It fails with a *LookupError wrapping ErrUnknownEncoding.
func (r *Registry) Lookup(name string) (*Codec, error) {
	key := Normalize(name)
	c, err := r.lookup(key)
	if err != nil {
		err = newLookupError(name)
	}
	emitLookup(context.Background(), name, key, err)
	return c, err
}

func (r *Registry) lookup(key string) (*Codec, error) {
	if key == "" {
		return nil, ErrUnknownEncoding
	}

	// Fast path: read-lock cache check
	r.mu.RLock()
	if c, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return c, nil
	}
	search := make([]SearchFunc, len(r.search))
	copy(search, r.search)
	r.mu.RUnlock()

	// Search functions run without the lock so they may consult the
	// registry themselves.
	for _, fn := range search {
		c, ok := fn(key)
		if !ok || c == nil {
			continue
		}

		r.mu.Lock()
		// Double-check pattern
		if cached, ok := r.cache[key]; ok {
			r.mu.Unlock()
			return cached, nil
		}
		r.cache[key] = c
		r.mu.Unlock()
		return c, nil
	}

	return nil, ErrUnknownEncoding
}

// Encode looks up name and encodes text with it.
func (r *Registry) Encode(name, text string, policy ErrorPolicy) ([]byte, error) {
	start := time.Now()
	c, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	out, err := Encode(c, text, policy)
	emitEncodeComplete(context.Background(), c.Name, len(out), time.Since(start), err)
	return out, err
}

// Decode looks up name and decodes data with it.
func (r *Registry) Decode(name string, data []byte, policy ErrorPolicy) (string, error) {
	start := time.Now()
	c, err := r.Lookup(name)
	if err != nil {
		return "", err
	}
	out, err := Decode(c, data, policy)
	emitDecodeComplete(context.Background(), c.Name, len(data), time.Since(start), err)
	return out, err
}

// NewIncrementalDecoder looks up name and returns a streaming decoder.
func (r *Registry) NewIncrementalDecoder(name string, policy ErrorPolicy) (IncrementalDecoder, error) {
	c, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return c.IncrementalDecoder(policy)
}

// NewIncrementalEncoder looks up name and returns a streaming encoder.
func (r *Registry) NewIncrementalEncoder(name string, policy ErrorPolicy) (IncrementalEncoder, error) {
	c, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return c.IncrementalEncoder(policy)
}

// Len returns the number of registered search functions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.search)
}

// Reset drops every search function and cached codec.
// This is primarily useful for test isolation.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.search = nil
	r.cache = make(map[string]*Codec)
}

// Match returns a search function recognizing c by its normalized name and
// aliases.
func Match(c *Codec) SearchFunc {
	names := make(map[string]struct{})
	for _, n := range c.names() {
		names[n] = struct{}{}
	}
	return func(name string) (*Codec, bool) {
		if _, ok := names[name]; ok {
			return c, true
		}
		return nil, false
	}
}

// Encode runs c's stateless encoder after validating the policy.
func Encode(c *Codec, text string, policy ErrorPolicy) ([]byte, error) {
	if c == nil || c.Encode == nil {
		return nil, ErrNilCodec
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	out, _, err := c.Encode(text, policy.orStrict())
	return out, err
}

// Decode runs c's stateless decoder after validating the policy.
func Decode(c *Codec, data []byte, policy ErrorPolicy) (string, error) {
	if c == nil || c.Decode == nil {
		return "", ErrNilCodec
	}
	if err := policy.Validate(); err != nil {
		return "", err
	}
	out, _, err := c.Decode(data, policy.orStrict())
	return out, err
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process registry, preloaded with Charsets.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(Charsets)
	})
	return defaultRegistry
}

// Register appends a search function to the process registry.
func Register(fn SearchFunc) error {
	return Default().Register(fn)
}

// Lookup resolves name through the process registry.
func Lookup(name string) (*Codec, error) {
	return Default().Lookup(name)
}
