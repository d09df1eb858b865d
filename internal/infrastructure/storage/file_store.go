package storage

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/ports"
)

// FileStoreName is the YAML file created inside the data directory.
const FileStoreName = "store.yaml"

// FileStore keeps every key in one YAML document. Each write rewrites the
// whole file through a temp file and rename.
type FileStore struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewFileStore builds a store backed by path on fs.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

// Get implements ports.KeyValueStore.
func (f *FileStore) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// Set implements ports.KeyValueStore.
func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value
	return f.write(values)
}

// Delete implements ports.KeyValueStore.
func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.write(values)
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) read() (map[string]string, error) {
	values := map[string]string{}

	exists, err := afero.Exists(f.fs, f.path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", f.path, err)
	}
	if !exists {
		return values, nil
	}

	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}

func (f *FileStore) write(values map[string]string) error {
	if err := f.fs.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, data, domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

var _ ports.KeyValueStore = (*FileStore)(nil)
