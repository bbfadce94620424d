// Package sidecar keeps ranked image variants outside of source documents in
// a single artifact keyed by stable hash of original image reference.
package sidecar

import (
	"encoding/hex"

	"github.com/zeebo/blake3"

	"imgpath/variant"
)

// KeySize is number of hash bytes used for record key.
const KeySize = 16

// Key returns lowercase hex of the first 128 bits of BLAKE3 hash of
// normalized reference.
func Key(ref string) string {
	sum := blake3.Sum256([]byte(variant.Normalize(ref)))
	return hex.EncodeToString(sum[:KeySize])
}

// FormatInfo describes single format of an image.
type FormatInfo struct {
	Path     string `json:"path" yaml:"path"`
	Priority int    `json:"priority" yaml:"priority"`
	Exists   bool   `json:"exists" yaml:"exists"`
	// Size is nil when variant does not exist.
	Size *int64 `json:"size" yaml:"size"`
}

// Record holds everything known about one original image.
type Record struct {
	Original    string                `json:"original" yaml:"original"`
	OriginalExt string                `json:"original_ext" yaml:"original_ext"`
	Optimal     string                `json:"optimal" yaml:"optimal"`
	Formats     map[string]FormatInfo `json:"formats" yaml:"formats"`
}

// NewRecord converts ranked set into record and its key. ok is false for
// empty sets.
func NewRecord(r variant.Ranked) (key string, rec Record, ok bool) {
	orig, found := r.Entry(variant.FormatOriginal)
	if !found {
		return "", Record{}, false
	}
	rec = Record{
		Original:    variant.ToSlash(orig.Path),
		OriginalExt: r.OriginalExt,
		Optimal:     variant.ToSlash(r.Main),
		Formats:     make(map[string]FormatInfo, len(r.Entries)),
	}
	for _, e := range r.Entries {
		info := FormatInfo{Path: variant.ToSlash(e.Path), Priority: e.Priority, Exists: e.Exists}
		if e.Exists && e.Size != variant.Absent {
			size := e.Size
			info.Size = &size
		}
		rec.Formats[e.Format.String()] = info
	}
	return Key(orig.Path), rec, true
}
