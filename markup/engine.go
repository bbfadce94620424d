package markup

import (
	"strings"

	"imgpath/variant"
)

// Annotation selects how ranked variants are persisted.
type Annotation struct {
	// Inline writes markers into sources.
	Inline bool
	// Sidecar means records are kept outside of sources.
	Sidecar bool
	// EmbedHash adds record key marker, only effective with both of the
	// above.
	EmbedHash bool
}

// RankFunc resolves and ranks single reference.
type RankFunc func(ref string) variant.Ranked

// KeyFunc computes record key for normalized original path.
type KeyFunc func(original string) string

// Stats counts what happened to references of a single document.
type Stats struct {
	References int
	Rewritten  int
	Guarded    int
	Unresolved int
	// Saved is estimated number of bytes saved by pointing references to
	// lighter variants.
	Saved int64
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.References += other.References
	s.Rewritten += other.Rewritten
	s.Guarded += other.Guarded
	s.Unresolved += other.Unresolved
	s.Saved += other.Saved
}

// Result of processing single document.
type Result struct {
	Text    string
	Changed bool
	// Resolved has every successfully ranked reference in source order,
	// including those left alone by the guard.
	Resolved []variant.Ranked
	Stats    Stats
}

// Engine rewrites documents. It keeps no per document state and is safe for
// concurrent use as long as rank and key functions are.
type Engine struct {
	annotation Annotation
	guard      Guard
	rank       RankFunc
	key        KeyFunc
}

func NewEngine(a Annotation, rank RankFunc, key KeyFunc) *Engine {
	return &Engine{
		annotation: a,
		guard:      Guard{Enabled: a.Inline},
		rank:       rank,
		key:        key,
	}
}

// Process locates references in src with dialect d, resolves them and
// splices rewritten constructs back.
func (e *Engine) Process(d Dialect, src string) Result {
	var (
		res  = Result{Text: src}
		b    strings.Builder
		last int
		nl   = newline(src)
	)

	for _, ref := range d.Locate(src) {
		res.Stats.References++
		span := src[ref.Start:ref.End]

		guarded := e.guard.Annotated(d.Kind(), span)
		if guarded && !e.annotation.Sidecar {
			res.Stats.Guarded++
			continue
		}

		ranked := e.rank(ref.Path)
		if ranked.Empty() {
			res.Stats.Unresolved++
			continue
		}
		res.Resolved = append(res.Resolved, ranked)
		if guarded {
			res.Stats.Guarded++
			continue
		}

		var markers []Marker
		if e.annotation.Inline && d.Kind() != KindFunctional {
			markers = Markers(ranked, e.hash(ranked))
		}
		replacement := d.Rewrite(src, ref, ranked.Main, markers, nl)
		if replacement == span {
			continue
		}

		b.WriteString(src[last:ref.Start])
		b.WriteString(replacement)
		last = ref.End

		res.Stats.Rewritten++
		if orig, ok := ranked.Entry(variant.FormatOriginal); ok {
			if main, ok := ranked.MainEntry(); ok {
				res.Stats.Saved += orig.Size - main.Size
			}
		}
	}

	if res.Stats.Rewritten == 0 {
		return res
	}
	b.WriteString(src[last:])
	res.Text = b.String()
	res.Changed = res.Text != src
	return res
}

func (e *Engine) hash(r variant.Ranked) string {
	if !e.annotation.Inline || !e.annotation.Sidecar || !e.annotation.EmbedHash || e.key == nil {
		return ""
	}
	orig, ok := r.Entry(variant.FormatOriginal)
	if !ok {
		return ""
	}
	return e.key(variant.Normalize(orig.Path))
}
