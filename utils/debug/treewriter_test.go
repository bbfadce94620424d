package debug

import (
	"strings"
	"testing"

	"imgpath/variant"
)

func TestNewTreeWriter(t *testing.T) {
	tw := NewTreeWriter()
	if tw == nil {
		t.Fatal("NewTreeWriter() returned nil")
	}
	if tw.w == nil {
		t.Error("TreeWriter builder is nil")
	}
}

func TestTreeWriter_String(t *testing.T) {
	tw := NewTreeWriter()
	if tw.String() != "" {
		t.Error("Expected empty string from new TreeWriter")
	}

	tw.w.WriteString("test content")
	if tw.String() != "test content" {
		t.Errorf("String() = %q, want %q", tw.String(), "test content")
	}
}

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{
			name:   "no depth",
			depth:  0,
			format: "test",
			args:   nil,
			want:   "test\n",
		},
		{
			name:   "depth 1",
			depth:  1,
			format: "indented",
			args:   nil,
			want:   "  indented\n",
		},
		{
			name:   "depth 2",
			depth:  2,
			format: "double indent",
			args:   nil,
			want:   "    double indent\n",
		},
		{
			name:   "with formatting",
			depth:  1,
			format: "value: %d",
			args:   []any{42},
			want:   "  value: 42\n",
		},
		{
			name:   "multiple args",
			depth:  0,
			format: "%s = %d",
			args:   []any{"count", 5},
			want:   "count = 5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			got := tw.String()
			if got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Field(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{
			name:  "no depth empty value",
			depth: 0,
			label: "field",
			value: "",
			want:  "field: \n",
		},
		{
			name:  "no depth with value",
			depth: 0,
			label: "path",
			value: "img/hero banner.jpg",
			want:  "path: \"img/hero banner.jpg\"\n",
		},
		{
			name:  "depth 1 with value",
			depth: 1,
			label: "main",
			value: "test",
			want:  "  main: \"test\"\n",
		},
		{
			name:  "depth 2 with value",
			depth: 2,
			label: "key",
			value: "data",
			want:  "    key: \"data\"\n",
		},
		{
			name:  "value with quotes",
			depth: 0,
			label: "quoted",
			value: "he said \"hello\"",
			want:  "quoted: \"he said \\\"hello\\\"\"\n",
		},
		{
			name:  "value with newline",
			depth: 0,
			label: "multiline",
			value: "line1\nline2",
			want:  "multiline: \"line1\\nline2\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Field(tt.depth, tt.label, tt.value)
			got := tw.String()
			if got != tt.want {
				t.Errorf("Field() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_MultipleOperations(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "project")
	tw.Field(1, "root", "/srv/site/dev")
	tw.Line(1, "references")
	tw.Field(2, "ref", `img\a.jpg`)

	got := tw.String()
	want := "project\n  root: \"/srv/site/dev\"\n  references\n    ref: \"img\\\\a.jpg\"\n"

	if got != want {
		t.Errorf("Multiple operations:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestTreeWriter_Ranked(t *testing.T) {
	set := variant.Set{
		variant.FormatOriginal: {Format: variant.FormatOriginal, Path: "img/a.jpg", Size: 2048, Exists: true},
		variant.FormatWebp:     {Format: variant.FormatWebp, Path: "img/webp/a.webp", Size: 1024, Exists: true},
	}

	tw := NewTreeWriter()
	tw.Ranked(0, variant.Rank(set, "./img/a.jpg"), func(ref string) string { return "k:" + ref })

	want := `reference: "./img/a.jpg"
  key: "k:img/a.jpg"
  main: "img/webp/a.webp"
  original_ext: "jpg"
  formats:
    1 webp "img/webp/a.webp" (1.0 kB)
    2 original "img/a.jpg" (2.0 kB)
    3 avif "img/avif/a.avif" (missing)
`
	if got := tw.String(); got != want {
		t.Errorf("Ranked() =\n%s\nwant:\n%s", got, want)
	}
}

func TestTreeWriter_RankedUnresolved(t *testing.T) {
	tw := NewTreeWriter()
	tw.Ranked(1, variant.Rank(nil, "img/missing.png"), nil)

	want := "  reference: \"img/missing.png\"\n    unresolved\n"
	if got := tw.String(); got != want {
		t.Errorf("Ranked() = %q, want %q", got, want)
	}
	if strings.Contains(tw.String(), "key") {
		t.Error("unresolved reference must not have key")
	}
}
