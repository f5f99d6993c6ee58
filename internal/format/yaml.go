package format

import (
	"gopkg.in/yaml.v3"
)

type yamlFormat struct{}

// YAML returns the YAML format.
func YAML() Format {
	return &yamlFormat{}
}

func (f *yamlFormat) ContentType() string {
	return "application/yaml"
}

func (f *yamlFormat) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}
