// Package debug renders diagnostic dumps.
package debug

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"imgpath/variant"
)

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Field writes label with quoted value, empty values are not quoted.
func (tw TreeWriter) Field(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Ranked dumps ranked variant set under its reference. key may be nil.
func (tw TreeWriter) Ranked(depth int, r variant.Ranked, key func(string) string) {
	tw.Field(depth, "reference", r.Reference)
	if r.Empty() {
		tw.Line(depth+1, "unresolved")
		return
	}
	if orig, ok := r.Entry(variant.FormatOriginal); ok && key != nil {
		tw.Field(depth+1, "key", key(orig.Path))
	}
	tw.Field(depth+1, "main", r.Main)
	tw.Field(depth+1, "original_ext", r.OriginalExt)
	tw.Line(depth+1, "formats:")
	for _, e := range r.Entries {
		size := "missing"
		if e.Exists {
			size = humanize.Bytes(uint64(max(e.Size, 0)))
		}
		tw.Line(depth+2, "%d %s %s (%s)", e.Priority, e.Format, strconv.Quote(e.Path), size)
	}
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
