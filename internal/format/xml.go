package format

import (
	"encoding/xml"
)

// xmlFormat writes indented XML. Values need an XMLName or a named type to
// give the document its root element.
type xmlFormat struct{}

// XML returns the XML format.
func XML() Format {
	return &xmlFormat{}
}

func (f *xmlFormat) ContentType() string {
	return "application/xml"
}

func (f *xmlFormat) Marshal(v any) ([]byte, error) {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}
