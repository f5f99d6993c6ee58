package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/zoobzio/recode/internal/format"
	"github.com/zoobzio/recode/source"
)

// sourceReport describes a loaded file.
type sourceReport struct {
	Name        string `json:"name" yaml:"name" msgpack:"name" xml:"name"`
	Encoding    string `json:"encoding" yaml:"encoding" msgpack:"encoding" xml:"encoding"`
	Declared    string `json:"declared,omitempty" yaml:"declared,omitempty" msgpack:"declared,omitempty" xml:"declared,omitempty"`
	Size        int    `json:"size" yaml:"size" msgpack:"size" xml:"size"`
	Chars       int    `json:"chars" yaml:"chars" msgpack:"chars" xml:"chars"`
	Chunks      int    `json:"chunks" yaml:"chunks" msgpack:"chunks" xml:"chunks"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint" msgpack:"fingerprint" xml:"fingerprint"`
}

type inspectReport struct {
	XMLName xml.Name       `json:"-" yaml:"-" msgpack:"-" xml:"sources"`
	Sources []sourceReport `json:"sources" yaml:"sources" msgpack:"sources" xml:"source"`
}

func newSourceReport(src *source.Source) sourceReport {
	return sourceReport{
		Name:        src.Name,
		Encoding:    src.Encoding,
		Declared:    src.Declared,
		Size:        src.Size,
		Chars:       len([]rune(src.Text)),
		Chunks:      src.Chunks,
		Fingerprint: src.Fingerprint,
	}
}

// codecReport describes a resolvable codec.
type codecReport struct {
	Name    string   `json:"name" yaml:"name" msgpack:"name" xml:"name"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty" msgpack:"aliases,omitempty" xml:"alias"`
	Origin  string   `json:"origin" yaml:"origin" msgpack:"origin" xml:"origin,attr"`
}

type codecsReport struct {
	XMLName xml.Name      `json:"-" yaml:"-" msgpack:"-" xml:"codecs"`
	Codecs  []codecReport `json:"codecs" yaml:"codecs" msgpack:"codecs" xml:"codec"`
}

// writeReport writes v in the named format. The empty name selects the
// plain text table.
func writeReport(w io.Writer, name string, v any) error {
	if name == "" || name == "text" {
		return writeTable(w, v)
	}
	f, err := format.Lookup(name)
	if err != nil {
		return usagef("%v", err)
	}
	data, err := f.Marshal(v)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	_, err = w.Write(data)
	return err
}

func writeTable(w io.Writer, v any) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	switch r := v.(type) {
	case inspectReport:
		fmt.Fprintln(tw, "NAME\tENCODING\tDECLARED\tSIZE\tCHARS\tCHUNKS\tBLAKE3")
		for _, s := range r.Sources {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				s.Name, s.Encoding, orDash(s.Declared), s.Size, s.Chars, s.Chunks, s.Fingerprint[:16])
		}
	case codecsReport:
		fmt.Fprintln(tw, "NAME\tORIGIN\tALIASES")
		for _, c := range r.Codecs {
			aliases := "-"
			if len(c.Aliases) > 0 {
				aliases = fmt.Sprint(c.Aliases)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Origin, aliases)
		}
	default:
		return fmt.Errorf("no table layout for %T", v)
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
