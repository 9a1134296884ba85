package inventory

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

const DefaultDataFile = "store_data.json"

type codec struct {
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

var (
	jsonCodec = codec{
		marshal:   func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") },
		unmarshal: json.Unmarshal,
	}
	yamlCodec = codec{
		marshal:   yaml.Marshal,
		unmarshal: yaml.Unmarshal,
	}
)

// FileStore keeps the snapshot in a single file. Paths ending in .yaml or .yml are
// written as YAML, everything else as indented JSON.
type FileStore struct {
	path  string
	codec codec
}

func NewFileStore(path string) *FileStore {
	c := jsonCodec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		c = yamlCodec
	}
	return &FileStore{path: path, codec: c}
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Read(_ context.Context) (Snapshot, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := f.codec.unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return snap, nil
}

// Write replaces the file atomically: the body goes to a temp file in the same
// directory which is then renamed over the target.
func (f *FileStore) Write(_ context.Context, snap Snapshot) error {
	raw, err := f.codec.marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir, base := filepath.Split(f.path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), f.path)
}
