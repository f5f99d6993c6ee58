package format

import (
	"encoding/json"
)

// jsonFormat writes indented JSON.
type jsonFormat struct{}

// JSON returns the JSON format.
func JSON() Format {
	return &jsonFormat{}
}

func (f *jsonFormat) ContentType() string {
	return "application/json"
}

func (f *jsonFormat) Marshal(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
