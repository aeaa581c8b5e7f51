// Package letters loads the reference paths for traceable letters and verses.
package letters

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuitrace/internal/model"
)

// Kinds of traceable items.
const (
	KindLetter = "letter"
	KindAyah   = "ayah"
)

// ErrUnknownLetter is returned when a letter id is not in the set.
var ErrUnknownLetter = errors.New("unknown letter")

//go:embed letters.toml
var builtin []byte

// Letter is a traceable item with its normalized reference path.
type Letter struct {
	ID    string
	Name  string
	Glyph string
	Kind  string
	Order int
	Path  model.Path
}

type dataset struct {
	Letters []letterRecord `toml:"letter" yaml:"letter"`
}

type letterRecord struct {
	ID     string        `toml:"id" yaml:"id"`
	Name   string        `toml:"name" yaml:"name"`
	Glyph  string        `toml:"glyph" yaml:"glyph"`
	Kind   string        `toml:"kind,omitempty" yaml:"kind,omitempty"`
	Order  int           `toml:"order,omitempty" yaml:"order,omitempty"`
	Points []pointRecord `toml:"points" yaml:"points"`
}

type pointRecord struct {
	X     float64 `toml:"x" yaml:"x"`
	Y     float64 `toml:"y" yaml:"y"`
	Start bool    `toml:"start,omitempty" yaml:"start,omitempty"`
}

// Set is an ordered, validated collection of letters.
type Set struct {
	letters []Letter
	index   map[string]int
}

// Default returns the built-in letter set.
func Default() (*Set, error) {
	return Decode(builtin, "toml")
}

// LoadFile reads a TOML or YAML letter set, chosen by file extension.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	set, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Decode parses a letter set in the given format ("toml", "yaml" or "yml").
func Decode(data []byte, format string) (*Set, error) {
	var ds dataset
	switch format {
	case "toml":
		if _, err := toml.Decode(string(data), &ds); err != nil {
			return nil, fmt.Errorf("failed to decode letters: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("failed to decode letters: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported letters format %q", format)
	}
	letters := make([]Letter, 0, len(ds.Letters))
	for _, rec := range ds.Letters {
		letters = append(letters, rec.toLetter())
	}
	return NewSet(letters)
}

// NewSet validates letters and orders them by Order, keeping input order for ties.
func NewSet(letters []Letter) (*Set, error) {
	if len(letters) == 0 {
		return nil, fmt.Errorf("letter set is empty")
	}
	out := make([]Letter, len(letters))
	copy(out, letters)
	for i := range out {
		if out[i].Kind == "" {
			out[i].Kind = KindLetter
		}
		if err := validate(out[i]); err != nil {
			return nil, err
		}
		out[i].Path = out[i].Path.Clone()
		// The first sample always opens a stroke.
		out[i].Path[0].IsStrokeStart = true
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})

	index := make(map[string]int, len(out))
	for i, l := range out {
		if _, dup := index[l.ID]; dup {
			return nil, fmt.Errorf("duplicate letter id %q", l.ID)
		}
		index[l.ID] = i
	}
	return &Set{letters: out, index: index}, nil
}

func validate(l Letter) error {
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("letter id is empty")
	}
	if l.Kind != KindLetter && l.Kind != KindAyah {
		return fmt.Errorf("letter %q: unknown kind %q", l.ID, l.Kind)
	}
	if len(l.Path) == 0 {
		return fmt.Errorf("letter %q: path has no points", l.ID)
	}
	for i, p := range l.Path {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
			return fmt.Errorf("letter %q: point %d (%.3f, %.3f) is outside the unit square", l.ID, i, p.X, p.Y)
		}
	}
	return nil
}

// Len returns the number of letters.
func (s *Set) Len() int {
	return len(s.letters)
}

// All returns the letters in order.
func (s *Set) All() []Letter {
	out := make([]Letter, len(s.letters))
	copy(out, s.letters)
	return out
}

// IDs returns the letter ids in order.
func (s *Set) IDs() []string {
	return lo.Map(s.letters, func(l Letter, _ int) string { return l.ID })
}

// First returns the first letter of the set.
func (s *Set) First() Letter {
	return s.letters[0]
}

// Get looks up a letter by id.
func (s *Set) Get(id string) (Letter, error) {
	i, ok := s.index[id]
	if !ok {
		return Letter{}, fmt.Errorf("%w %q", ErrUnknownLetter, id)
	}
	return s.letters[i], nil
}

// Next returns the letter after id; false at the end of the set or for unknown ids.
func (s *Set) Next(id string) (Letter, bool) {
	i, ok := s.index[id]
	if !ok || i+1 >= len(s.letters) {
		return Letter{}, false
	}
	return s.letters[i+1], true
}

// Prev returns the letter before id.
func (s *Set) Prev(id string) (Letter, bool) {
	i, ok := s.index[id]
	if !ok || i == 0 {
		return Letter{}, false
	}
	return s.letters[i-1], true
}

// Filter returns the subset of a kind. An empty kind returns s.
func (s *Set) Filter(kind string) (*Set, error) {
	if kind == "" {
		return s, nil
	}
	subset := lo.Filter(s.letters, func(l Letter, _ int) bool { return l.Kind == kind })
	if len(subset) == 0 {
		return nil, fmt.Errorf("no letters of kind %q", kind)
	}
	return NewSet(subset)
}

// Export writes the set as TOML in the same layout LoadFile reads.
func Export(w io.Writer, s *Set) error {
	ds := dataset{Letters: lo.Map(s.letters, func(l Letter, _ int) letterRecord {
		return fromLetter(l)
	})}
	if err := toml.NewEncoder(w).Encode(ds); err != nil {
		return fmt.Errorf("failed to encode letters: %w", err)
	}
	return nil
}

func (r letterRecord) toLetter() Letter {
	path := make(model.Path, len(r.Points))
	for i, p := range r.Points {
		path[i] = model.PathPoint{Point: model.Point{X: p.X, Y: p.Y}, IsStrokeStart: p.Start}
	}
	return Letter{
		ID:    r.ID,
		Name:  r.Name,
		Glyph: r.Glyph,
		Kind:  r.Kind,
		Order: r.Order,
		Path:  path,
	}
}

func fromLetter(l Letter) letterRecord {
	return letterRecord{
		ID:    l.ID,
		Name:  l.Name,
		Glyph: l.Glyph,
		Kind:  l.Kind,
		Order: l.Order,
		Points: lo.Map(l.Path, func(p model.PathPoint, _ int) pointRecord {
			return pointRecord{X: p.X, Y: p.Y, Start: p.IsStrokeStart}
		}),
	}
}
