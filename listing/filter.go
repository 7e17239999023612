package listing

import (
	"sort"
	"strings"

	"github.com/alexballas/xassetbrowser/asset"
	"github.com/gobwas/glob"
	"golang.org/x/text/cases"
)

type SortField int

const (
	// SortByType groups directories, snapshots, images and the rest, then
	// orders by name inside each group.
	SortByType SortField = iota
	SortByName
)

type Direction int

const (
	Ascending Direction = iota
	Descending
)

type SortSpec struct {
	Field     SortField
	Direction Direction
}

// FilterSpec selects which entries survive Apply. The zero value hides nothing.
type FilterSpec struct {
	HideJPEG  bool
	HidePNG   bool
	HideOther bool

	// HideDotfiles drops names starting with a dot.
	HideDotfiles bool

	// Ignore holds glob patterns matched against the display name.
	// Invalid patterns never match, use Validate to report them.
	Ignore []string
}

// Validate reports the first ignore pattern that does not compile.
func (f FilterSpec) Validate() error {
	_, err := compileIgnore(f.Ignore)
	return err
}

// Result is the filtered, sorted view of a listing.
type Result struct {
	Entries []asset.Entry
	// Hidden is the number of input entries that were filtered out.
	Hidden int
}

type sortKey struct {
	entry  asset.Entry
	rank   int
	folded string
	name   string
}

// Apply filters and sorts entries. It never modifies its input and the
// output for a given input is always the same.
func Apply(entries []asset.Entry, sortSpec SortSpec, filter FilterSpec, search string) Result {
	// A Caser keeps state, so every call gets its own.
	fold := cases.Fold()
	needle := fold.String(search)
	ignore, _ := compileIgnore(filter.Ignore)

	keys := make([]sortKey, 0, len(entries))
	for _, e := range entries {
		name := e.DisplayName()
		folded := fold.String(name)
		if needle != "" && !strings.Contains(folded, needle) {
			continue
		}
		if !filter.keep(e, name, ignore) {
			continue
		}
		keys = append(keys, sortKey{
			entry:  e,
			rank:   e.Kind().Rank(),
			folded: folded,
			name:   name,
		})
	}

	sort.SliceStable(keys, func(i, j int) bool {
		c := compareKeys(keys[i], keys[j], sortSpec.Field)
		if sortSpec.Direction == Descending {
			return c > 0
		}
		return c < 0
	})

	out := make([]asset.Entry, len(keys))
	for i, k := range keys {
		out[i] = k.entry
	}
	return Result{Entries: out, Hidden: len(entries) - len(out)}
}

func (f FilterSpec) keep(e asset.Entry, name string, ignore []glob.Glob) bool {
	if e.IsDir() {
		// Extension flags only apply to files.
		return !f.hiddenName(name, ignore)
	}
	switch {
	case f.HideJPEG && asset.IsJPEG(name):
		return false
	case f.HidePNG && asset.IsPNG(name):
		return false
	case f.HideOther && !e.Kind().Recognized():
		return false
	}
	return !f.hiddenName(name, ignore)
}

func (f FilterSpec) hiddenName(name string, ignore []glob.Glob) bool {
	if f.HideDotfiles && strings.HasPrefix(name, ".") {
		return true
	}
	for _, g := range ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func compareKeys(a, b sortKey, field SortField) int {
	if field == SortByType && a.rank != b.rank {
		if a.rank < b.rank {
			return -1
		}
		return 1
	}
	if c := strings.Compare(a.folded, b.folded); c != 0 {
		return c
	}
	return strings.Compare(a.name, b.name)
}

func compileIgnore(patterns []string) ([]glob.Glob, error) {
	var (
		out      []glob.Glob
		firstErr error
	)
	for _, p := range patterns {
		if p == "" {
			continue
		}
		g, err := glob.Compile(p)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out = append(out, g)
	}
	return out, firstErr
}
