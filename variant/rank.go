package variant

import (
	"cmp"
	"slices"
	"strings"
)

// Entry is a single format in ranked set.
type Entry struct {
	Format   Format
	Path     string
	Priority int
	Exists   bool
	// Size is Absent for variants which do not exist.
	Size int64
}

// Ranked is the result of ranking all known formats of a single image.
// Entries are ordered by priority, Main is the lightest existing variant.
type Ranked struct {
	Reference   string
	Main        string
	OriginalExt string
	Entries     []Entry
}

// Empty reports whether there is nothing to annotate.
func (r Ranked) Empty() bool {
	return len(r.Entries) == 0
}

// Entry returns ranked entry for the format.
func (r Ranked) Entry(f Format) (Entry, bool) {
	for _, e := range r.Entries {
		if e.Format == f {
			return e, true
		}
	}
	return Entry{}, false
}

// MainEntry returns entry Main was selected from.
func (r Ranked) MainEntry() (Entry, bool) {
	for _, e := range r.Entries {
		if e.Exists {
			return e, true
		}
	}
	return Entry{}, false
}

// Rank orders variants and assigns contiguous priorities 1..len(Known).
// Existing variants go first ascending by size, candidates which do not exist
// yet are synthesized at their expected location and go last. Ties are broken
// by format precedence, so result is stable for fixed file system state.
// Set without original yields empty result.
func Rank(set Set, reference string) Ranked {
	orig, ok := set[FormatOriginal]
	if !ok || !orig.Exists {
		return Ranked{Reference: reference}
	}

	entries := make([]Entry, 0, len(Known))
	for _, f := range Known {
		if v, ok := set[f]; ok && v.Exists {
			entries = append(entries, Entry{Format: f, Path: ToSlash(v.Path), Exists: true, Size: v.Size})
			continue
		}
		entries = append(entries, Entry{Format: f, Path: Candidate(orig.Path, f), Size: Absent})
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		if a.Exists != b.Exists {
			if a.Exists {
				return -1
			}
			return 1
		}
		return cmp.Or(
			cmp.Compare(a.Size, b.Size),
			cmp.Compare(a.Format.precedence(), b.Format.precedence()),
		)
	})

	for i := range entries {
		entries[i].Priority = i + 1
	}

	return Ranked{
		Reference:   reference,
		Main:        entries[0].Path,
		OriginalExt: strings.TrimPrefix(extOf(orig.Path), "."),
		Entries:     entries,
	}
}
