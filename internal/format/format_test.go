package format

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

type report struct {
	XMLName xml.Name `json:"-" yaml:"-" msgpack:"-" xml:"report"`
	Name    string   `json:"name" yaml:"name" msgpack:"name" xml:"name"`
	Size    int      `json:"size" yaml:"size" msgpack:"size" xml:"size"`
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
	}{
		{"json", "application/json"},
		{"JSON", "application/json"},
		{"yaml", "application/yaml"},
		{"xml", "application/xml"},
		{"msgpack", "application/msgpack"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Lookup(tt.name)
			if err != nil {
				t.Fatalf("Lookup(%q) error: %v", tt.name, err)
			}
			if f.ContentType() != tt.contentType {
				t.Errorf("ContentType() = %q, want %q", f.ContentType(), tt.contentType)
			}
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("toml")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("Lookup(toml) error = %v, want ErrUnknownFormat", err)
	}
	if !strings.Contains(err.Error(), "json") {
		t.Errorf("error %q should list supported formats", err)
	}
}

func TestNames(t *testing.T) {
	got := strings.Join(Names(), ",")
	if got != "json,msgpack,xml,yaml" {
		t.Errorf("Names() = %q", got)
	}
}

func TestJSONMarshal(t *testing.T) {
	data, err := JSON().Marshal(report{Name: "reverse", Size: 12})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var got report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got.Name != "reverse" || got.Size != 12 {
		t.Errorf("round-trip failed: got %+v", got)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("JSON output should end in a newline")
	}
}

func TestYAMLMarshal(t *testing.T) {
	data, err := YAML().Marshal(report{Name: "rot13", Size: 3})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var got report
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got.Name != "rot13" || got.Size != 3 {
		t.Errorf("round-trip failed: got %+v", got)
	}
}

func TestXMLMarshal(t *testing.T) {
	data, err := XML().Marshal(report{Name: "latin_1", Size: 7})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.HasPrefix(string(data), "<?xml") {
		t.Errorf("XML output should start with a header, got %q", data)
	}
	var got report
	if err := xml.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got.Name != "latin_1" || got.Size != 7 {
		t.Errorf("round-trip failed: got %+v", got)
	}
}

func TestMessagePackMarshal(t *testing.T) {
	data, err := MessagePack().Marshal(report{Name: "zstd", Size: 99})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var got report
	if err := msgpack.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got.Name != "zstd" || got.Size != 99 {
		t.Errorf("round-trip failed: got %+v", got)
	}
}
