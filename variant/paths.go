package variant

import (
	"path"
	"strings"
)

// Normalize converts reference into canonical form used as a lookup key:
// forward slashes only and no leading "./".
func Normalize(ref string) string {
	ref = strings.ReplaceAll(ref, `\`, "/")
	for strings.HasPrefix(ref, "./") {
		ref = strings.TrimLeft(ref[2:], "/")
	}
	return ref
}

// ToSlash replaces any backslash with forward slash regardless of host OS,
// paths written into sources are always URL-like.
func ToSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// Candidate returns the path where variant of format f is expected for
// original image at base: <parent>/<format>/<stem>.<format>. Root-absolute
// references keep their leading slash.
func Candidate(base string, f Format) string {
	if f == FormatOriginal {
		return ToSlash(base)
	}
	p := Normalize(base)
	dir, file := path.Split(p)
	stem := strings.TrimSuffix(file, extOf(file))
	return path.Join(path.Clean(dir), f.String(), stem+f.Ext())
}

// rootRelative turns reference into a cleaned slash separated path relative to
// asset root. ok is false when reference escapes the root or is empty.
func rootRelative(ref string) (rel string, absolute, ok bool) {
	p := Normalize(ref)
	absolute = strings.HasPrefix(p, "/")
	p = path.Clean(strings.TrimLeft(p, "/"))
	if p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return "", absolute, false
	}
	return p, absolute, true
}

func withPrefix(rel string, absolute bool) string {
	if absolute {
		return "/" + rel
	}
	return rel
}
