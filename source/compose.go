package source

import (
	"github.com/zoobzio/recode"
)

// Compose writes text as a source file in the named encoding: a
// "# coding: <codec name>" line followed by the encoded body. An existing
// declaration line in text is replaced; lines before it are kept.
// A nil reg uses recode.Default().
func Compose(reg *recode.Registry, name, text string, policy recode.ErrorPolicy) ([]byte, error) {
	if reg == nil {
		reg = recode.Default()
	}
	codec, err := reg.Lookup(name)
	if err != nil {
		return nil, err
	}

	var lead, body string
	if decl, ok := FindDeclaration([]byte(text)); ok {
		lead, body = text[:decl.Start], text[decl.End:]
	} else {
		body = text
	}
	if !isASCII([]byte(lead)) {
		return nil, ErrNonASCIIPreamble
	}

	encoded, err := recode.Encode(codec, body, policy)
	if err != nil {
		return nil, err
	}

	line := "# coding: " + codec.Name + "\n"
	out := make([]byte, 0, len(lead)+len(line)+len(encoded))
	out = append(out, lead...)
	out = append(out, line...)
	return append(out, encoded...), nil
}
