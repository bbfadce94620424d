package markup

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"imgpath/variant"
)

// Functional handles stylesheets where images are referenced by url()
// tokens. It never annotates, only path inside the token is replaced.
type Functional struct{}

func (d *Functional) Kind() Kind {
	return KindFunctional
}

func (d *Functional) Locate(src string) []Reference {
	var (
		refs   []Reference
		offset int
	)
	l := css.NewLexer(parse.NewInputString(src))
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			// io.EOF or malformed input, either way nothing else to find
			break
		}
		start := offset
		offset += len(data)
		if tt != css.URLToken {
			continue
		}
		vs, ve, ok := urlValue(string(data))
		if !ok {
			continue
		}
		value := string(data[vs:ve])
		if !variant.IsRaster(value) {
			continue
		}
		refs = append(refs, Reference{
			Path:       value,
			Start:      start,
			End:        offset,
			ValueStart: start + vs,
			ValueEnd:   start + ve,
			Close:      offset - 1,
		})
	}
	return refs
}

// urlValue returns bounds of the path inside url(...) token, with optional
// quotes and surrounding white space excluded.
func urlValue(tok string) (int, int, bool) {
	open := strings.IndexByte(tok, '(')
	closing := strings.LastIndexByte(tok, ')')
	if open < 0 || closing <= open {
		return 0, 0, false
	}
	vs, ve := open+1, closing
	for vs < ve && isSpace(tok[vs]) {
		vs++
	}
	for ve > vs && isSpace(tok[ve-1]) {
		ve--
	}
	if ve-vs >= 2 && (tok[vs] == '"' || tok[vs] == '\'') && tok[ve-1] == tok[vs] {
		vs++
		ve--
	}
	if vs >= ve {
		return 0, 0, false
	}
	return vs, ve, true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func (d *Functional) Rewrite(src string, ref Reference, main string, _ []Marker, _ string) string {
	return src[ref.Start:ref.ValueStart] + main + src[ref.ValueEnd:ref.End]
}
