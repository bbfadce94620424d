package markup

import (
	"strconv"

	"imgpath/variant"
)

const (
	extMarker  = "data-original-ext"
	hashMarker = "data-image-hash"
)

func srcMarker(f variant.Format) string {
	return "data-" + f.String() + "-src"
}

func priorityMarker(f variant.Format) string {
	return "data-" + f.String() + "-priority"
}

// MarkerNames returns every attribute name annotation may produce.
func MarkerNames() []string {
	names := make([]string, 0, 2*len(variant.Known)+2)
	for _, f := range variant.Known {
		names = append(names, srcMarker(f), priorityMarker(f))
	}
	return append(names, extMarker, hashMarker)
}

// Markers builds annotation for ranked set: source and priority of every
// format in priority order, then original extension and, when hash is not
// empty, the record key.
func Markers(r variant.Ranked, hash string) []Marker {
	if r.Empty() {
		return nil
	}
	markers := make([]Marker, 0, 2*len(r.Entries)+2)
	for _, e := range r.Entries {
		markers = append(markers,
			Marker{Name: srcMarker(e.Format), Value: variant.ToSlash(e.Path)},
			Marker{Name: priorityMarker(e.Format), Value: strconv.Itoa(e.Priority)},
		)
	}
	markers = append(markers, Marker{Name: extMarker, Value: r.OriginalExt})
	if len(hash) > 0 {
		markers = append(markers, Marker{Name: hashMarker, Value: hash})
	}
	return markers
}
