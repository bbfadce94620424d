package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"imgpath/variant"
)

var (
	// quoted values may contain '>' (comparisons, embedded template code)
	imgElement = regexp.MustCompile(`(?i)<img\b(?:[^>"']|"[^"]*"|'[^']*')*>`)
	// one attribute per match, values are consumed whole so names inside
	// them are never seen
	attribute = regexp.MustCompile("([^\\s\"'=<>/]+)(?:\\s*=\\s*(?:\"([^\"]*)\"|'([^']*)'|([^\\s\"'=<>`]+)))?")
)

// Tag handles markup where image is an element with src attribute
// (html, php templates). Markers go on their own lines indented relative to
// the line element starts on.
type Tag struct {
	Indent int
}

func (d *Tag) Kind() Kind {
	return KindTag
}

func (d *Tag) Locate(src string) []Reference {
	var refs []Reference
	for _, m := range imgElement.FindAllStringIndex(src, -1) {
		start, end := m[0], m[1]
		vs, ve, ok := srcValue(src[start:end])
		if !ok {
			continue
		}
		value := src[start+vs : start+ve]
		if !variant.IsRaster(value) {
			continue
		}
		refs = append(refs, Reference{
			Path:       value,
			Start:      start,
			End:        end,
			ValueStart: start + vs,
			ValueEnd:   start + ve,
			Close:      end - 1,
		})
	}
	return refs
}

// srcValue returns bounds of src attribute value within element span.
func srcValue(span string) (int, int, bool) {
	const head = len("<img")
	body := span[head : len(span)-1]
	for _, sm := range attribute.FindAllStringSubmatchIndex(body, -1) {
		if !strings.EqualFold(body[sm[2]:sm[3]], "src") {
			continue
		}
		// double quoted, single quoted or bare
		for g := 4; g < len(sm); g += 2 {
			if sm[g] >= 0 {
				return head + sm[g], head + sm[g+1], true
			}
		}
		return 0, 0, false
	}
	return 0, 0, false
}

func (d *Tag) Rewrite(src string, ref Reference, main string, markers []Marker, nl string) string {
	var b strings.Builder
	b.WriteString(src[ref.Start:ref.ValueStart])
	b.WriteString(main)
	if len(markers) == 0 {
		b.WriteString(src[ref.ValueEnd:ref.End])
		return b.String()
	}

	rest := strings.TrimRight(src[ref.ValueEnd:ref.Close], " \t\r\n")
	selfClosing := strings.HasSuffix(rest, "/")
	if selfClosing {
		rest = strings.TrimRight(strings.TrimSuffix(rest, "/"), " \t\r\n")
	}
	b.WriteString(rest)

	indent := lineIndent(src, ref.Start) + strings.Repeat(" ", d.Indent)
	for _, m := range markers {
		b.WriteString(nl)
		b.WriteString(indent)
		b.WriteString(m.Name)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(m.Value))
		b.WriteString(`"`)
	}
	if selfClosing {
		b.WriteString(" />")
	} else {
		b.WriteString(">")
	}
	return b.String()
}
