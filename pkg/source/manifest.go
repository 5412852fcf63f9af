package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/spotlight/pkg/errors"
	"github.com/matzehuels/spotlight/pkg/grid"
)

// manifest is the on-disk item list. Each entry carries either an explicit
// aspect ratio or pixel dimensions.
type manifest struct {
	Items []entry `json:"items" yaml:"items"`
}

type entry struct {
	ID          string  `json:"id" yaml:"id"`
	AspectRatio float64 `json:"aspect_ratio" yaml:"aspect_ratio"`
	Width       float64 `json:"width" yaml:"width"`
	Height      float64 `json:"height" yaml:"height"`
}

// ReadManifest loads items from a JSON (.json) or YAML (.yaml, .yml)
// manifest:
//
//	items:
//	  - id: beach.jpg
//	    aspect_ratio: 1.5
//	  - id: tower.jpg
//	    width: 800
//	    height: 1200
func ReadManifest(path string) ([]grid.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "manifest %s does not exist", path)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&m)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported manifest extension %q (want .json, .yaml or .yml)", ext)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse manifest %s", filepath.Base(path))
	}

	return m.items()
}

// ParseManifest decodes a JSON manifest from memory.
func ParseManifest(data []byte) ([]grid.Item, error) {
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse manifest")
	}
	return m.items()
}

func (m manifest) items() ([]grid.Item, error) {
	items := make([]grid.Item, 0, len(m.Items))
	for i, e := range m.Items {
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("item-%d", i)
		}

		ar := e.AspectRatio
		if ar == 0 && e.Height > 0 {
			ar = e.Width / e.Height
		}
		if err := errors.ValidateAspectRatio(ar); err != nil {
			return nil, errors.New(errors.ErrCodeInvalidAspectRatio, "item %q: needs a positive aspect_ratio or width and height", id)
		}
		items = append(items, grid.Item{ID: id, AspectRatio: ar})
	}
	return items, nil
}
