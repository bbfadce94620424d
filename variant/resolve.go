package variant

import (
	"maps"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"imgpath/utils/images"
)

// Variant is a single physical encoding of referenced image.
type Variant struct {
	Format Format
	// Path is slash separated and relative to asset root (original keeps
	// reference as it was written).
	Path   string
	Size   int64
	Exists bool
}

// Set holds at most one variant per format.
type Set map[Format]Variant

type resolved struct {
	set    Set
	traced bool
}

// Resolver locates original images and their sibling variants under asset
// root. It only reads file system and is safe for concurrent use.
type Resolver struct {
	root      string
	log       *zap.Logger
	traceBack bool
	verify    bool

	mu    sync.Mutex
	cache map[string]resolved
}

type Option func(*Resolver)

// WithTraceBack makes resolver map references pointing into sibling format
// directories back to their original image.
func WithTraceBack(on bool) Option {
	return func(r *Resolver) {
		r.traceBack = on
	}
}

// WithVerification makes resolver check content of discovered siblings and
// drop those which are not what their extension claims.
func WithVerification(on bool) Option {
	return func(r *Resolver) {
		r.verify = on
	}
}

func NewResolver(root string, log *zap.Logger, options ...Option) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &Resolver{
		root:  abs,
		log:   log.Named("resolver"),
		cache: make(map[string]resolved),
	}
	for _, setOpt := range options {
		setOpt(r)
	}
	return r, nil
}

// Root returns absolute asset root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve returns all existing variants of the referenced image. Empty set
// means original image could not be found, which is not an error.
func (r *Resolver) Resolve(ref string) Set {
	key := Normalize(ref)

	r.mu.Lock()
	res, ok := r.cache[key]
	r.mu.Unlock()

	if !ok {
		res = r.resolve(ref)
		r.mu.Lock()
		r.cache[key] = res
		r.mu.Unlock()
	}

	set := maps.Clone(res.set)
	if len(set) > 0 && !res.traced {
		// the same image may be referenced differently, always report it the
		// way it was written this time
		orig := set[FormatOriginal]
		orig.Path = ToSlash(ref)
		set[FormatOriginal] = orig
	}
	return set
}

func (r *Resolver) resolve(ref string) resolved {
	rel, absolute, ok := rootRelative(ref)
	if !ok {
		if len(strings.Trim(Normalize(ref), "./")) == 0 {
			r.log.Debug("Reference does not name a file", zap.String("ref", ref))
		} else {
			// once per distinct reference, results are cached
			r.log.Info("Reference escapes asset root, leaving it as is", zap.String("ref", ref), zap.String("root", r.root))
		}
		return resolved{}
	}

	var traced bool
	if r.traceBack {
		if orig, ok := r.traceOrigin(rel); ok {
			r.log.Debug("Reference points to variant, using original image", zap.String("ref", ref), zap.String("original", orig))
			rel, traced = orig, true
		}
	}

	abs := filepath.Join(r.root, filepath.FromSlash(rel))
	fi, err := os.Stat(abs)
	if err != nil || !fi.Mode().IsRegular() {
		r.log.Debug("Original image not found", zap.String("ref", ref), zap.String("path", abs))
		return resolved{}
	}

	origPath := ToSlash(ref)
	if traced {
		origPath = withPrefix(rel, absolute)
	}
	set := Set{
		FormatOriginal: {Format: FormatOriginal, Path: origPath, Size: fi.Size(), Exists: true},
	}
	r.log.Debug("Original image", zap.String("path", origPath), zap.String("size", humanize.Bytes(uint64(fi.Size()))))

	dir := filepath.Dir(abs)
	stem := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))

	for _, f := range Siblings {
		file := filepath.Join(dir, f.String(), stem+f.Ext())
		fi, err := os.Stat(file)
		if err != nil || !fi.Mode().IsRegular() {
			r.log.Debug("Variant not found", zap.Stringer("format", f), zap.String("path", file))
			continue
		}
		relVariant, err := filepath.Rel(r.root, file)
		if err != nil || !filepath.IsLocal(relVariant) {
			r.log.Warn("Unable to express variant path relative to asset root, ignoring",
				zap.Stringer("format", f), zap.String("path", file), zap.Error(err))
			continue
		}
		if r.verify {
			match, err := images.IsFormat(file, f.String())
			if err != nil || !match {
				r.log.Warn("Variant content does not match its format, ignoring",
					zap.Stringer("format", f), zap.String("path", file), zap.Error(err))
				continue
			}
		}
		set[f] = Variant{
			Format: f,
			Path:   withPrefix(filepath.ToSlash(relVariant), absolute),
			Size:   fi.Size(),
			Exists: true,
		}
		r.log.Debug("Variant found", zap.Stringer("format", f), zap.String("path", set[f].Path), zap.String("size", humanize.Bytes(uint64(fi.Size()))))
	}
	return resolved{set: set, traced: traced}
}

// traceOrigin checks if rel is <parent>/<format>/<stem>.<format> and if so
// looks for original image <parent>/<stem>.<ext> trying supported raster
// extensions in order.
func (r *Resolver) traceOrigin(rel string) (string, bool) {
	dir := path.Dir(rel)
	f, err := ParseFormat(strings.ToLower(path.Base(dir)))
	if err != nil || f == FormatOriginal {
		return "", false
	}
	ext := extOf(rel)
	if !strings.EqualFold(ext, f.Ext()) {
		return "", false
	}
	parent := path.Dir(dir)
	stem := strings.TrimSuffix(path.Base(rel), ext)
	for _, e := range rasterExts {
		for _, candidate := range []string{stem + e, stem + strings.ToUpper(e)} {
			orig := path.Join(parent, candidate)
			if fi, err := os.Stat(filepath.Join(r.root, filepath.FromSlash(orig))); err == nil && fi.Mode().IsRegular() {
				return orig, true
			}
		}
	}
	return "", false
}
