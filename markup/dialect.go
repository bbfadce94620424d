// Package markup finds image references in source documents and rewrites
// them to point to the lightest variant, optionally annotating them with all
// known variants.
package markup

import (
	"path/filepath"
	"strings"
)

//go:generate go tool go-enum --marshal --names -f $GOFILE

// Kind of source syntax image references are written in.
// ENUM(tag, block, functional)
type Kind int

// Reference is a located image reference. All offsets are byte offsets into
// the source text, spans of subsequent references never overlap.
type Reference struct {
	// Path is reference value as written.
	Path string
	// Start and End delimit the whole construct (element, block or token).
	Start, End int
	// ValueStart and ValueEnd delimit the path value itself.
	ValueStart, ValueEnd int
	// Close is offset of construct closing delimiter, -1 when there is none.
	Close int
}

// Marker is a single annotation attribute.
type Marker struct {
	Name  string
	Value string
}

// Dialect knows how to find and rewrite references in one kind of source.
type Dialect interface {
	Kind() Kind
	// Locate returns references in source order.
	Locate(src string) []Reference
	// Rewrite returns replacement for src[ref.Start:ref.End] with reference
	// value set to main and markers (if any) spliced in. Lines are joined
	// with nl.
	Rewrite(src string, ref Reference, main string, markers []Marker, nl string) string
}

// Layout controls indentation of annotation markers.
type Layout struct {
	TagIndent   int
	BlockIndent int
}

var dialects = map[string]Kind{
	".html": KindTag,
	".htm":  KindTag,
	".php":  KindTag,
	".pug":  KindBlock,
	".css":  KindFunctional,
	".scss": KindFunctional,
	".sass": KindFunctional,
}

// Extensions returns file extensions (lowercase, with dot) of supported
// dialect kind.
func Extensions(k Kind) []string {
	var exts []string
	for ext, kind := range dialects {
		if kind == k {
			exts = append(exts, ext)
		}
	}
	return exts
}

// ForFile selects dialect by file name extension.
func ForFile(name string, l Layout) (Dialect, bool) {
	kind, ok := dialects[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return nil, false
	}
	switch kind {
	case KindTag:
		return &Tag{Indent: l.TagIndent}, true
	case KindBlock:
		return &Block{Indent: l.BlockIndent}, true
	default:
		return &Functional{}, true
	}
}

// lineIndent returns leading white space of the line containing offset.
func lineIndent(src string, offset int) string {
	start := strings.LastIndexByte(src[:offset], '\n') + 1
	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return src[start:end]
}

// newline returns line terminator used by the source.
func newline(src string) string {
	if strings.Contains(src, "\r\n") {
		return "\r\n"
	}
	return "\n"
}
