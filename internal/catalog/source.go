package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultDataPath is where the file source looks for the collection,
// relative to the deployment root.
const DefaultDataPath = "data/paintings.json"

// ErrSourceAbsent reports that a source has no data to offer. It is a
// supported state, not a fault.
var ErrSourceAbsent = errors.New("catalog source absent")

// Source produces the full collection. Load is called at most once per Store.
type Source interface {
	Name() string
	Load(ctx context.Context) (Collection, error)
}

// FileSource reads the collection from a JSON, YAML or Parquet document.
type FileSource struct {
	Path string
}

// NewFileSource returns a source reading DefaultDataPath under root.
func NewFileSource(root string) *FileSource {
	return &FileSource{Path: filepath.Join(root, filepath.FromSlash(DefaultDataPath))}
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Load(_ context.Context) (Collection, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceAbsent, s.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	var c Collection
	switch ext := strings.ToLower(filepath.Ext(s.Path)); ext {
	case ".json":
		if err := json.NewDecoder(f).Decode(&c); err != nil {
			return nil, fmt.Errorf("decode json %s: %w", s.Path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(f).Decode(&c); err != nil {
			return nil, fmt.Errorf("decode yaml %s: %w", s.Path, err)
		}
	case ".parquet":
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", s.Path, err)
		}
		if c, err = readParquet(f, info.Size()); err != nil {
			return nil, fmt.Errorf("decode parquet %s: %w", s.Path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog file format %q", ext)
	}

	if c == nil {
		c = Collection{}
	}
	return c, nil
}
