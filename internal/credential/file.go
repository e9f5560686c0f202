package credential

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/felixgeelhaar/painel/internal/log"
)

// errCorrupt marks a credential file that exists but is not a JSON object
var errCorrupt = stderrors.New("credential file is corrupt")

// FileKV stores all keys in one JSON object on disk.
// Every write goes to a temp file in the same directory which is then renamed
// over the original, so readers never observe a half-written document.
type FileKV struct {
	path string
	mu   sync.Mutex
}

// NewFileKV creates a file-backed store; the file is created on first write
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

// Path returns the backing file
func (f *FileKV) Path() string {
	return f.path
}

// Get returns the value stored under key
func (f *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// SetMany merges values into the file in a single replace
func (f *FileKV) SetMany(ctx context.Context, values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.loadForWrite(ctx)
	if err != nil {
		return err
	}
	for k, v := range values {
		current[k] = v
	}
	return f.store(current)
}

// Delete removes keys; the file is removed once it holds nothing
func (f *FileKV) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.loadForWrite(ctx)
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(current, k)
	}
	if len(current) == 0 {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", f.path, err)
		}
		return nil
	}
	return f.store(current)
}

func (f *FileKV) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w: %w", f.path, errCorrupt, err)
	}
	return values, nil
}

// loadForWrite is load for the write paths. A corrupt document is replaced
// rather than blocking login and logout.
func (f *FileKV) loadForWrite(ctx context.Context) (map[string]string, error) {
	values, err := f.load()
	if stderrors.Is(err, errCorrupt) {
		log.FromContext(ctx).WarnContext(ctx, "discarding corrupt credential file", "path", f.path, "error", err)
		return map[string]string{}, nil
	}
	return values, err
}

func (f *FileKV) store(values map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, f.path)
}

var _ KV = (*FileKV)(nil)
