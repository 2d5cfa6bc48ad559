// Package store is the read-only presentation collection. It is populated
// once at start-up and never written afterwards, so it is safe to share
// between goroutines without locking.
package store

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/slideview/internal/deck"
)

//go:embed decks/*.yaml
var builtinFS embed.FS

// SeedID is the id of the compiled-in deck.
const SeedID = "pfa-simulation-stabilite"

var (
	ErrNotFound  = errors.New("presentation not found")
	ErrDuplicate = errors.New("duplicate presentation id")
)

// Store holds presentations in authoring order.
type Store struct {
	decks []*deck.Presentation
	byID  map[string]int
}

// New validates the given presentations and indexes them by id.
func New(decks ...*deck.Presentation) (*Store, error) {
	s := &Store{byID: make(map[string]int, len(decks))}
	for _, p := range decks {
		if err := s.add(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) add(p *deck.Presentation) error {
	if err := deck.Validate(p); err != nil {
		return fmt.Errorf("invalid presentation %q: %w", p.ID, err)
	}
	if _, dup := s.byID[p.ID]; dup {
		return fmt.Errorf("%s: %w", p.ID, ErrDuplicate)
	}
	s.byID[p.ID] = len(s.decks)
	s.decks = append(s.decks, p)
	return nil
}

// Default returns a store holding only the compiled-in decks.
func Default() (*Store, error) {
	builtin, err := Builtin()
	if err != nil {
		return nil, err
	}
	return New(builtin...)
}

// Builtin decodes the compiled-in decks in file name order.
func Builtin() ([]*deck.Presentation, error) {
	entries, err := fs.ReadDir(builtinFS, "decks")
	if err != nil {
		return nil, fmt.Errorf("read builtin decks: %w", err)
	}
	out := make([]*deck.Presentation, 0, len(entries))
	for _, e := range entries {
		name := path.Join("decks", e.Name())
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read builtin deck %s: %w", name, err)
		}
		p, err := deck.Parse(data, deck.FormatYAML)
		if err != nil {
			return nil, fmt.Errorf("builtin deck %s: %w", name, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Load returns a store with the compiled-in decks followed by every deck
// document found in dirs, in directory then file name order. Files that
// fail to decode or validate are skipped; their errors are joined into the
// returned error, which may be non-nil alongside a usable store.
func Load(dirs ...string) (*Store, error) {
	s, err := Default()
	if err != nil {
		return nil, err
	}
	var errs []error
	for _, dir := range dirs {
		files, err := deckFiles(dir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, f := range files {
			p, err := deck.ReadFile(f)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if err := s.add(p); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", f, err))
			}
		}
	}
	return s, errors.Join(errs...)
}

func deckFiles(dir string) ([]string, error) {
	dir = expandHome(dir)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("deck path: %w", err)
	}
	if !info.IsDir() {
		return []string{dir}, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read deck dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := deck.FormatFromPath(e.Name()); ok {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// List returns every presentation in authoring order.
func (s *Store) List() []*deck.Presentation {
	return slices.Clone(s.decks)
}

// Len returns the number of presentations.
func (s *Store) Len() int {
	return len(s.decks)
}

// Get looks a presentation up by id. The boolean is false when no
// presentation matches.
func (s *Store) Get(id string) (*deck.Presentation, bool) {
	i, ok := s.byID[strings.TrimSpace(id)]
	if !ok {
		return nil, false
	}
	return s.decks[i], true
}

// Lookup is Get with an error wrapping ErrNotFound.
func (s *Store) Lookup(id string) (*deck.Presentation, error) {
	p, ok := s.Get(id)
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return p, nil
}

// Suggest returns up to n known ids closest to id by edit distance. Ids
// further away than half their own length are not considered similar.
func (s *Store) Suggest(id string, n int) []string {
	if n <= 0 {
		return nil
	}
	type candidate struct {
		id   string
		dist int
	}
	want := strings.ToLower(strings.TrimSpace(id))
	var cands []candidate
	for _, p := range s.decks {
		have := strings.ToLower(p.ID)
		d := levenshtein.ComputeDistance(want, have)
		if want != "" && strings.Contains(have, want) {
			d = 0
		}
		if d > max(3, len(p.ID)/2) {
			continue
		}
		cands = append(cands, candidate{id: p.ID, dist: d})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	out := make([]string, 0, min(n, len(cands)))
	for _, c := range cands[:min(n, len(cands))] {
		out = append(out, c.id)
	}
	return out
}
