package letters

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/tuitrace/internal/model"
)

func TestDefaultSet(t *testing.T) {
	set, err := Default()
	if err != nil {
		t.Fatalf("load default set: %v", err)
	}
	if set.First().ID != "alif" {
		t.Fatalf("expected alif first, got %q", set.First().ID)
	}
	alif, err := set.Get("alif")
	if err != nil {
		t.Fatalf("get alif: %v", err)
	}
	if len(alif.Path) != 2 || alif.Path[0].Y != 0.15 || alif.Path[1].Y != 0.85 {
		t.Fatalf("unexpected alif path: %+v", alif.Path)
	}
	next, ok := set.Next("alif")
	if !ok || next.ID != "ba" {
		t.Fatalf("expected ba after alif, got %q ok=%v", next.ID, ok)
	}
	if _, ok := set.Prev("alif"); ok {
		t.Fatalf("expected no letter before alif")
	}
	for _, l := range set.All() {
		if !l.Path[0].IsStrokeStart {
			t.Fatalf("letter %q: first point must start a stroke", l.ID)
		}
	}
}

func TestGetUnknown(t *testing.T) {
	set, err := Default()
	if err != nil {
		t.Fatalf("load default set: %v", err)
	}
	if _, err := set.Get("nope"); !errors.Is(err, ErrUnknownLetter) {
		t.Fatalf("expected ErrUnknownLetter, got %v", err)
	}
	if _, ok := set.Next("nope"); ok {
		t.Fatalf("expected no next letter for unknown id")
	}
}

func TestFilterByKind(t *testing.T) {
	set, err := Default()
	if err != nil {
		t.Fatalf("load default set: %v", err)
	}
	ayat, err := set.Filter(KindAyah)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	for _, l := range ayat.All() {
		if l.Kind != KindAyah {
			t.Fatalf("unexpected kind %q in ayah subset", l.Kind)
		}
	}
	if ayat.Len() == 0 || ayat.Len() >= set.Len() {
		t.Fatalf("unexpected subset size %d of %d", ayat.Len(), set.Len())
	}
	if _, err := set.Filter("glyph"); err == nil {
		t.Fatalf("expected error for empty subset")
	}
}

func TestNewSetValidation(t *testing.T) {
	good := model.Path{{Point: model.Point{X: 0.1, Y: 0.1}}}
	cases := []struct {
		name    string
		letters []Letter
		want    string
	}{
		{name: "empty", letters: nil, want: "empty"},
		{name: "blank id", letters: []Letter{{ID: " ", Path: good}}, want: "id is empty"},
		{name: "no points", letters: []Letter{{ID: "a"}}, want: "no points"},
		{name: "outside", letters: []Letter{{ID: "a", Path: model.Path{{Point: model.Point{X: 1.2, Y: 0}}}}}, want: "outside the unit square"},
		{name: "nan x", letters: []Letter{{ID: "a", Path: model.Path{{Point: model.Point{X: math.NaN(), Y: 0.5}}}}}, want: "outside the unit square"},
		{name: "nan y", letters: []Letter{{ID: "a", Path: model.Path{{Point: model.Point{X: 0.5, Y: math.NaN()}}}}}, want: "outside the unit square"},
		{name: "duplicate", letters: []Letter{{ID: "a", Path: good}, {ID: "a", Path: good}}, want: "duplicate"},
		{name: "kind", letters: []Letter{{ID: "a", Kind: "word", Path: good}}, want: "unknown kind"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSet(tc.letters)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestDecodeRejectsNaNPoint(t *testing.T) {
	data := `[[letter]]
id = "alif"
points = [
  { x = nan, y = 0.2, start = true },
  { x = 0.5, y = 0.8 },
]
`
	_, err := Decode([]byte(data), "toml")
	if err == nil || !strings.Contains(err.Error(), "outside the unit square") {
		t.Fatalf("expected NaN point to be rejected, got %v", err)
	}
}

func TestNewSetForcesFirstStrokeStart(t *testing.T) {
	path := model.Path{{Point: model.Point{X: 0.1, Y: 0.1}}, {Point: model.Point{X: 0.2, Y: 0.2}}}
	set, err := NewSet([]Letter{{ID: "a", Path: path}})
	if err != nil {
		t.Fatalf("new set: %v", err)
	}
	l, _ := set.Get("a")
	if !l.Path[0].IsStrokeStart {
		t.Fatalf("expected first point to start a stroke")
	}
	if path[0].IsStrokeStart {
		t.Fatalf("expected caller's path to stay untouched")
	}
}

func TestLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "letters.yaml")
	data := `letter:
  - id: mim
    name: Mim
    glyph: م
    order: 2
    points:
      - {x: 0.5, y: 0.3, start: true}
      - {x: 0.5, y: 0.8}
  - id: alif
    name: Alif
    glyph: ا
    order: 1
    points:
      - {x: 0.5, y: 0.15, start: true}
      - {x: 0.5, y: 0.85}
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	set, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ids := set.IDs()
	if len(ids) != 2 || ids[0] != "alif" || ids[1] != "mim" {
		t.Fatalf("unexpected order: %v", ids)
	}
	mim, _ := set.Get("mim")
	if mim.Kind != KindLetter {
		t.Fatalf("expected default kind, got %q", mim.Kind)
	}
}

func TestLoadFileUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "letters.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(path); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestExportRoundTrip(t *testing.T) {
	set, err := Default()
	if err != nil {
		t.Fatalf("load default set: %v", err)
	}
	var buf bytes.Buffer
	if err := Export(&buf, set); err != nil {
		t.Fatalf("export: %v", err)
	}
	again, err := Decode(buf.Bytes(), "toml")
	if err != nil {
		t.Fatalf("decode exported set: %v", err)
	}
	if again.Len() != set.Len() {
		t.Fatalf("expected %d letters, got %d", set.Len(), again.Len())
	}
	orig, _ := set.Get("shin")
	back, _ := again.Get("shin")
	if len(orig.Path) != len(back.Path) || orig.Path.Strokes() != back.Path.Strokes() {
		t.Fatalf("shin path changed on export: %d/%d points", len(orig.Path), len(back.Path))
	}
}
