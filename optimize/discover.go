package optimize

import (
	"context"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/zap"
)

// source is a file selected for processing.
type source struct {
	// path is absolute
	path string
	// rel is slash separated path relative to asset root
	rel string
}

// discover walks asset root collecting files with one of exts, skipping any
// directory whose name is listed in exclude. Result is in natural order of
// relative paths so runs are reproducible.
func discover(ctx context.Context, root string, exts, exclude []string, log *zap.Logger) ([]source, error) {
	var found []source

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && excluded(d.Name(), exclude) {
				log.Debug("Skipping excluded directory", zap.String("path", path))
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		found = append(found, source{path: path, rel: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(found, func(a, b source) int {
		switch {
		case a.rel == b.rel:
			return 0
		case natural.Less(a.rel, b.rel):
			return -1
		default:
			return 1
		}
	})
	return found, nil
}

func excluded(name string, exclude []string) bool {
	for _, ex := range exclude {
		if strings.EqualFold(name, strings.Trim(ex, `/\`)) {
			return true
		}
	}
	return false
}
