package markup

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

var markerAttr = regexp.MustCompile(`(?i)(?:^|[\s(,])(` + strings.Join(MarkerNames(), "|") + `)\s*=`)

// Guard detects references annotated by previous runs. Disabled guard never
// reports anything, which is what sidecar only mode needs since sources do
// not carry markers there.
type Guard struct {
	Enabled bool
}

// Annotated reports whether construct span already carries any marker.
func (g Guard) Annotated(k Kind, span string) bool {
	if !g.Enabled {
		return false
	}
	switch k {
	case KindTag:
		if names, ok := attributeNames(span); ok {
			return slices.ContainsFunc(names, isMarker)
		}
		return markerAttr.MatchString(span)
	case KindBlock:
		return markerAttr.MatchString(span)
	default:
		return false
	}
}

func isMarker(name string) bool {
	return slices.Contains(MarkerNames(), strings.ToLower(name))
}

// attributeNames tokenizes element start tag and returns names of its
// attributes, so marker names mentioned inside attribute values are not
// taken into account.
func attributeNames(span string) ([]string, bool) {
	z := html.NewTokenizer(strings.NewReader(span))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return nil, false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "img" {
				return nil, false
			}
			var names []string
			for hasAttr {
				var key []byte
				key, _, hasAttr = z.TagAttr()
				names = append(names, string(key))
			}
			return names, true
		}
	}
}
