package author

import (
	"testing"

	"github.com/matsen/bibclean/internal/reference"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		names []reference.Author
		want  string
	}{
		{
			name:  "single author",
			names: []reference.Author{{First: "John", Last: "Smith"}},
			want:  "{Smith}, John",
		},
		{
			name:  "two authors",
			names: []reference.Author{{First: "John", Last: "Smith"}, {First: "Jane", Last: "Doe"}},
			want:  "{Smith}, John and {Doe}, Jane",
		},
		{
			name:  "no first name",
			names: []reference.Author{{Last: "World Health Organization"}},
			want:  "{World Health Organization}",
		},
		{
			name:  "unclosed trailing escape in last name",
			names: []reference.Author{{First: "Ivan", Last: `Mati\v{c`}},
			want:  `{Mati\v{c}}, Ivan`,
		},
		{
			name:  "unclosed trailing escape in first name",
			names: []reference.Author{{First: `Fran\c{c`, Last: "Dupont"}},
			want:  `{Dupont}, Fran\c{c}`,
		},
		{
			name:  "balanced escape is left alone",
			names: []reference.Author{{First: "Ivan", Last: `Mati\v{c}`}},
			want:  `{Mati\v{c}}, Ivan`,
		},
		{
			name:  "short names are never re-closed",
			names: []reference.Author{{First: "A", Last: "x{e"}},
			want:  "{x{e}, A",
		},
		{
			name:  "empty list",
			names: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.names); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatParse_RoundTrip(t *testing.T) {
	canonical := []string{
		"{Smith}, John",
		"{Smith}, John and {Doe}, Jane",
		"{Smith}, John and {Doe}, Jane and {Lee}, Kim",
		"{van Dyke}, Jan and {World Health Organization}",
		`{Mati\v{c}}, Ivan`,
		`{Erd\H{o}s}, Paul`,
	}

	for _, s := range canonical {
		t.Run(s, func(t *testing.T) {
			if got := Format(Parse(s)); got != s {
				t.Errorf("Format(Parse(%q)) = %q", s, got)
			}
		})
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Smith, John and Doe, Jane", "{Smith}, John and {Doe}, Jane"},
		{"John Smith and Jane Doe", "{Smith}, John and {Doe}, Jane"},
		{"Jan {van Dyke}", "{van Dyke}, Jan"},
		{"A Smith and and B Jones", "{Smith}, A and {Jones}, B"},
		{"   ", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := Canonicalize(tt.raw); got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
