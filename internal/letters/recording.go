package letters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuitrace/internal/model"
)

// Recording is a user path captured on a canvas, in canvas pixels.
type Recording struct {
	Canvas model.Size
	Path   model.Path
}

type recordingRecord struct {
	Width  float64       `toml:"width" yaml:"width"`
	Height float64       `toml:"height" yaml:"height"`
	Points []pointRecord `toml:"points" yaml:"points"`
}

// LoadRecording reads a TOML or YAML recording, chosen by file extension.
// The canvas size may be omitted from the file.
func LoadRecording(path string) (Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Recording{}, err
	}
	var rec recordingRecord
	switch format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); format {
	case "toml":
		_, err = toml.Decode(string(data), &rec)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &rec)
	default:
		return Recording{}, fmt.Errorf("unsupported recording format %q", format)
	}
	if err != nil {
		return Recording{}, fmt.Errorf("failed to decode recording %s: %w", path, err)
	}
	out := Recording{
		Canvas: model.Size{Width: rec.Width, Height: rec.Height},
		Path:   make(model.Path, len(rec.Points)),
	}
	for i, p := range rec.Points {
		out.Path[i] = model.PathPoint{Point: model.Point{X: p.X, Y: p.Y}, IsStrokeStart: p.Start}
	}
	return out, nil
}
