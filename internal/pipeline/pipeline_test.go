package pipeline

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matsen/bibclean/internal/bibtex"
)

const messyBib = `@string{nat = {Nature}}

%ZZZ

@Article{Baker99,
  Author = {Jane Baker},
  title = {{Machine Learning}},
  year = 1999
}

@article{adams01,
  author = "Adams, Ann and Brown, Bob",
  title = {A title that
    continues},
  journal = nat,
  year = {2001}}

@book{smith99,
  author = {Smith, John},
  year = 1999,
  file = {:smith.pdf:PDF}
}

@misc{smith99,
  author = {Smith, John},
  title = {Again},
}
`

func process(t *testing.T, input string, opts Options) *Result {
	t.Helper()
	result, err := Process(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	return result
}

func TestProcess_Clean(t *testing.T) {
	result := process(t, messyBib, Options{})

	var ids []string
	for _, e := range result.Bibliography.Entries {
		ids = append(ids, e.ID)
	}
	want := []string{"adams01,", "baker99,", "smith99,", "smith99,"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("entry order = %q, want %q", ids, want)
	}

	// Ties keep input order.
	if result.Bibliography.Entries[2].Type != "@book" || result.Bibliography.Entries[3].Type != "@misc" {
		t.Errorf("duplicate ids not in input order")
	}

	adams := result.Bibliography.Entries[0]
	if got := adams.Fields["author"]; got != "{Adams}, Ann and {Brown}, Bob" {
		t.Errorf("author = %q", got)
	}
	if got := adams.Fields["title"]; got != "A title that continues" {
		t.Errorf("title = %q", got)
	}
	if got := adams.Fields["year"]; got != "2001" {
		t.Errorf("year = %q", got)
	}

	baker := result.Bibliography.Entries[1]
	if got := baker.Fields["author"]; got != "{Baker}, Jane" {
		t.Errorf("author = %q", got)
	}
	if got := baker.Fields["title"]; got != "{Machine Learning}" {
		t.Errorf("title = %q", got)
	}

	report := result.Report
	if report.Entries != 4 || report.Strings != 1 {
		t.Errorf("report counts = %d entries, %d strings", report.Entries, report.Strings)
	}
	if !reflect.DeepEqual(report.DuplicateIDs, []string{"smith99"}) {
		t.Errorf("DuplicateIDs = %q", report.DuplicateIDs)
	}
	if len(report.AuthorDuplicates) != 1 || report.AuthorDuplicates[0].Authors != "{Smith}, John" {
		t.Errorf("AuthorDuplicates = %+v", report.AuthorDuplicates)
	}
}

func TestProcess_Align(t *testing.T) {
	result := process(t, messyBib, Options{GenerateIDs: true})

	var ids []string
	for _, e := range result.Bibliography.Entries {
		ids = append(ids, e.ID)
	}
	// The @misc entry has no year and keeps its source identifier.
	want := []string{"adamsbrown01,", "baker99,", "smith99,", "smith99,"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("entry order = %q, want %q", ids, want)
	}
}

func TestProcess_SkipsEntryWithoutIdentifier(t *testing.T) {
	input := "@article{\n  title = {Orphan},\n}\n@article{ok99,\n  title = {Fine},\n}\n"
	result := process(t, input, Options{})

	if result.Report.Entries != 1 {
		t.Errorf("Entries = %d, want 1", result.Report.Entries)
	}
	if len(result.Report.Skipped) != 1 {
		t.Fatalf("Skipped = %+v", result.Report.Skipped)
	}
	if s := result.Report.Skipped[0]; s.Line != 1 || s.Reason != "missing identifier" {
		t.Errorf("Skipped[0] = %+v", s)
	}
}

func TestProcess_AlignRescuesEntryWithoutIdentifier(t *testing.T) {
	input := "@article{\n  author = {Lee, Kim},\n  year = {2005},\n}\n"
	result := process(t, input, Options{GenerateIDs: true})

	if len(result.Report.Skipped) != 0 {
		t.Errorf("Skipped = %+v", result.Report.Skipped)
	}
	if got := result.Bibliography.Entries[0].ID; got != "lee05," {
		t.Errorf("ID = %q", got)
	}
}

func TestProcess_WarningsCollected(t *testing.T) {
	input := "@article{a1,\nstray\n  title = {One},\n  title = {Two},\n}\n"
	result := process(t, input, Options{})

	if len(result.Report.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %+v", result.Report.Warnings)
	}
	if got := result.Bibliography.Entries[0].Fields["title"]; got != "One" {
		t.Errorf("title = %q", got)
	}
}

func TestProcess_ClosingBraceOnContinuationLine(t *testing.T) {
	input := "@misc{lee05,\n  title = {Notes},\n  year = 2005\n  },\n"
	result := process(t, input, Options{})
	out := bibtex.WriteString(result.Bibliography, bibtex.WriteOptions{})

	if !strings.Contains(out, "  year = {2005}\n}") {
		t.Errorf("stray closing brace left residue:\n%s", out)
	}
}

func TestProcess_SectionMarkers(t *testing.T) {
	input := "@misc{baker99,\n  note = {b},\n}\n@misc{adams01,\n  note = {a},\n}\n"
	result := process(t, input, Options{})
	out := bibtex.WriteString(result.Bibliography, bibtex.WriteOptions{})

	aaa := strings.Index(out, "%AAA")
	adams := strings.Index(out, "@misc{adams01,")
	bbb := strings.Index(out, "%BBB")
	baker := strings.Index(out, "@misc{baker99,")
	if aaa == -1 || bbb == -1 || !(aaa < adams && adams < bbb && bbb < baker) {
		t.Errorf("section markers out of place:\n%s", out)
	}
}

func TestProcess_FixedPoint(t *testing.T) {
	// No duplicate identifiers, so the output must reproduce itself.
	input := `@string{nat = {Nature}}

@Article{Baker99,
  Author = {Jane Baker and Bob {van Dyke} and Kim Lee},
  title = {{Machine Learning}},
  year = 1999
}

@article{adams01,
  author = "Adams, Ann and Brown, Bob",
  title = {A title that
    continues},
  journal = nat,
  year = {2001}}
`
	for _, opts := range []Options{{}, {GenerateIDs: true, Exclude: []string{"file"}}} {
		first := process(t, input, opts)
		once := bibtex.WriteString(first.Bibliography, bibtex.WriteOptions{Exclude: opts.Exclude})

		second := process(t, once, opts)
		twice := bibtex.WriteString(second.Bibliography, bibtex.WriteOptions{Exclude: opts.Exclude})

		if once != twice {
			t.Errorf("output is not a fixed point (%+v)\n--- once ---\n%s\n--- twice ---\n%s", opts, once, twice)
		}
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "refs.bib")
	output := filepath.Join(dir, "clean.bib")
	if err := os.WriteFile(input, []byte(messyBib), 0644); err != nil {
		t.Fatal(err)
	}

	report, err := Run(input, output, Options{GenerateIDs: true, Exclude: []string{"file"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Entries != 4 {
		t.Errorf("Entries = %d", report.Entries)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.HasPrefix(out, "@string{nat = {Nature}}\n\n%AAA\n\n@article{adamsbrown01,\n") {
		t.Errorf("unexpected output start:\n%s", out)
	}
	if strings.Contains(out, "file =") {
		t.Errorf("excluded field written:\n%s", out)
	}

	// No temp files left behind.
	matches, _ := filepath.Glob(filepath.Join(dir, ".clean.bib.*"))
	if len(matches) != 0 {
		t.Errorf("temp files left: %v", matches)
	}
}

func TestRun_MissingInputWritesNothing(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "clean.bib")

	if _, err := Run(filepath.Join(dir, "missing.bib"), output, Options{}); err == nil {
		t.Fatal("expected error for missing input")
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("output should not exist, stat err = %v", err)
	}
}

func TestRun_UnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "refs.bib")
	if err := os.WriteFile(input, []byte(messyBib), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Run(input, filepath.Join(dir, "no", "such", "dir", "out.bib"), Options{}); err == nil {
		t.Fatal("expected error for unwritable output")
	}
}
