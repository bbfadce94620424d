package images

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/h2non/filetype"
)

// headerSize is enough for every matcher filetype has for raster images.
const headerSize = 262

// Header reads the beginning of the file used for content sniffing.
func Header(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, headerSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unable to read header of %s: %w", path, err)
	}
	return buf[:n], nil
}

// IsFormat reports whether content of the file matches image format named by
// its usual extension (without dot), i.e. "webp" or "avif".
func IsFormat(path, ext string) (bool, error) {
	buf, err := Header(path)
	if err != nil {
		return false, err
	}
	return filetype.Is(buf, ext), nil
}

// Detect returns extension of the image format detected from file content or
// empty string when content is not a known image.
func Detect(path string) (string, error) {
	buf, err := Header(path)
	if err != nil {
		return "", err
	}
	kind, err := filetype.Image(buf)
	if err != nil || kind == filetype.Unknown {
		return "", nil
	}
	return kind.Extension, nil
}
