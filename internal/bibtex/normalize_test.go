package bibtex

import (
	"testing"

	"github.com/matsen/bibclean/internal/reference"
)

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{Machine Learning},", "Machine Learning"},
		{"{Machine Learning}", "Machine Learning"},
		{`"Machine Learning",`, "Machine Learning"},
		{`"Machine Learning"`, "Machine Learning"},
		{"1999,", "1999"},
		{"1999", "1999"},
		{"jgr,", "jgr"},
		{"{1999}}", "1999"},
		{"1999}", "1999"},
		{"1999 },", "1999"},
		{"1999 }", "1999"},
		{"{Title} },", "Title"},
		{"{Title {with} inner}},", "Title {with} inner"},
		{"{{Protected}},", "{Protected}"},
		{"{A} and {B},", "{A} and {B}"},
		{"{Smith}, John and {Doe}, Jane", "{Smith}, John and {Doe}, Jane"},
		{"{{Smith}, John and {Doe}, Jane},", "{Smith}, John and {Doe}, Jane"},
		{"{Spaced} ,", "Spaced"},
		{",", ""},
		{"", ""},
		{"{", "{"},
		{`"`, `"`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeValue(tt.in); got != tt.want {
				t.Errorf("NormalizeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeValue_Idempotent(t *testing.T) {
	inputs := []string{
		"{Machine Learning},",
		`"Quoted",`,
		"1999}",
		"{A} and {B}",
		"plain",
		"Title {with} inner",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once := NormalizeValue(in)
			if twice := NormalizeValue(once); twice != once {
				t.Errorf("NormalizeValue not idempotent: %q -> %q -> %q", in, once, twice)
			}
		})
	}
}

func TestStripBraces(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{Smith}", "Smith"},
		{"{{Smith}}", "Smith"},
		{"{ van Dyke }", "van Dyke"},
		{`{\"O}zt{\"u}rk`, `{\"O}zt{\"u}rk`},
		{`Mati\v{c}`, `Mati\v{c}`},
		{"Smith", "Smith"},
		{"{}", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := StripBraces(tt.in); got != tt.want {
				t.Errorf("StripBraces(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	raw := reference.RawEntry{
		Type: "@article",
		ID:   "smith99,",
		Seq:  4,
		Line: 12,
		Fields: []reference.Field{
			{Name: "title", Value: "{First},"},
			{Name: "type", Value: "{Master's thesis},"},
			{Name: "title", Value: "{Second},"},
			{Name: "year", Value: "1999"},
		},
	}

	entry, warnings := Normalize(raw)

	if entry.Type != "@article" || entry.ID != "smith99," || entry.Seq != 4 || entry.Line != 12 {
		t.Errorf("header = %+v", entry)
	}
	if got := entry.Fields["title"]; got != "First" {
		t.Errorf("title = %q, want first value to win", got)
	}
	if got := entry.Fields["type"]; got != "Master's thesis" {
		t.Errorf("type field = %q, source field named type must be kept", got)
	}
	if got := entry.Fields["year"]; got != "1999" {
		t.Errorf("year = %q", got)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].Line != 12 || warnings[0].Context != "{Second}," {
		t.Errorf("warning = %+v", warnings[0])
	}
}
