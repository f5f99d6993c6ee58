package source

import "testing"

func TestFindDeclaration(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		line  int
		start int
		end   int
	}{
		{"plain", "# coding: reverse\nbody", "reverse", 1, 0, 18},
		{"emacs", "# -*- coding: latin-1 -*-\n", "latin-1", 1, 0, 26},
		{"vim", "# vim: set fileencoding=rot13 :\n", "rot13", 1, 0, 32},
		{"equals", "#coding=utf_8\n", "utf_8", 1, 0, 14},
		{"indented", " \t# coding: ascii\n", "ascii", 1, 0, 18},
		{"second after shebang", "#!/usr/bin/env python\n# coding: rot13\nx", "rot13", 2, 22, 38},
		{"second after blank", "\n# coding: rot13\n", "rot13", 2, 1, 17},
		{"crlf", "# coding: rot13\r\nx", "rot13", 1, 0, 17},
		{"no newline", "# coding: rot13", "rot13", 1, 0, 15},
		{"dotted", "# coding: x.y-z\n", "x.y-z", 1, 0, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := FindDeclaration([]byte(tt.in))
			if !ok {
				t.Fatalf("FindDeclaration(%q) found nothing", tt.in)
			}
			if d.Name != tt.want || d.Line != tt.line || d.Start != tt.start || d.End != tt.end {
				t.Errorf("got %+v, want name=%q line=%d start=%d end=%d", d, tt.want, tt.line, tt.start, tt.end)
			}
		})
	}
}

func TestFindDeclaration_None(t *testing.T) {
	inputs := []string{
		"",
		"print('hi')\n# coding: rot13\n",
		"# just a comment\n\n# coding: rot13\n",
		"x = 1 # coding: rot13\n",
		"# coding:\n",
		"# encoding is not declared here\n",
	}
	for _, in := range inputs {
		if d, ok := FindDeclaration([]byte(in)); ok {
			t.Errorf("FindDeclaration(%q) = %+v, want none", in, d)
		}
	}
}
