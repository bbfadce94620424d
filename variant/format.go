// Package variant discovers encoded variants of referenced images and ranks
// them by size.
package variant

import (
	"math"
	"slices"
	"strings"
)

//go:generate go tool go-enum --marshal --names -f $GOFILE

// Encoding of a single image variant. Original is whatever format the
// referenced file has.
// ENUM(original, webp, avif)
type Format int

// Absent is the size of a variant that does not exist or cannot be measured.
const Absent int64 = math.MaxInt64

var (
	// Siblings are formats looked up in fixed sub-directories next to the
	// original image, in probing order.
	Siblings = []Format{FormatWebp, FormatAvif}

	// Known is every format which gets a priority in ranked set.
	Known = []Format{FormatOriginal, FormatWebp, FormatAvif}
)

// precedence breaks ties between variants of equal size and existence.
// Original wins equal sizes so nothing is rewritten for no gain, AVIF goes
// before WebP among candidates which do not exist yet.
func (x Format) precedence() int {
	switch x {
	case FormatOriginal:
		return 0
	case FormatAvif:
		return 1
	case FormatWebp:
		return 2
	default:
		return 3
	}
}

// Ext returns file extension (with dot) used for sibling format files.
func (x Format) Ext() string {
	if x == FormatOriginal {
		return ""
	}
	return "." + x.String()
}

// Raster extensions recognized as image references, lowercase with dot.
var rasterExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif", ".bmp", ".tiff"}

// VectorExt never has lighter variants and references to it are never touched.
const VectorExt = ".svg"

// IsRaster reports whether path ends with supported raster extension
// (case-insensitive). Vector images are never raster.
func IsRaster(path string) bool {
	ext := strings.ToLower(extOf(path))
	return ext != VectorExt && slices.Contains(rasterExts, ext)
}

// IsVector reports whether path references vector image.
func IsVector(path string) bool {
	return strings.EqualFold(extOf(path), VectorExt)
}

// RasterExtensions returns the list of supported raster extensions.
func RasterExtensions() []string {
	return slices.Clone(rasterExts)
}

func extOf(p string) string {
	for i := len(p) - 1; i >= 0 && p[i] != '/' && p[i] != '\\'; i-- {
		if p[i] == '.' {
			return p[i:]
		}
	}
	return ""
}
