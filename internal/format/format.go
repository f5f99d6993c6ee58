// Package format renders command reports in a chosen output format.
package format

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownFormat indicates an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Format serializes reports.
type Format interface {
	// ContentType returns the MIME type of the output.
	ContentType() string

	// Marshal encodes v.
	Marshal(v any) ([]byte, error)
}

var formats = map[string]func() Format{
	"json":    JSON,
	"yaml":    YAML,
	"xml":     XML,
	"msgpack": MessagePack,
}

// Lookup returns the format with the given name.
func Lookup(name string) (Format, error) {
	ctor, ok := formats[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names returns the supported format names, sorted.
func Names() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
