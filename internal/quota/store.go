package quota

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"simpleinvoice/internal/logger"
)

// Store is a client-local key-value store.
//
// Implementations never fail: an unavailable backend reads as empty and
// drops writes.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Deleter is implemented by stores that can remove keys.
type Deleter interface {
	Delete(key string)
}

// NopStore has no backing storage. Every read is empty and every write is dropped.
type NopStore struct{}

func (NopStore) Get(string) (string, bool) { return "", false }
func (NopStore) Set(string, string)        {}

// MemoryStore keeps values for the lifetime of the process.
type MemoryStore struct {
	c *cache.Cache
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: cache.New(cache.NoExpiration, 0)}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (m *MemoryStore) Set(key, value string) {
	m.c.Set(key, value, cache.NoExpiration)
}

func (m *MemoryStore) Delete(key string) {
	m.c.Delete(key)
}

// FileStore persists values as a flat JSON object in a single file.
//
// Every call re-reads the file so that several CLI invocations share state.
// Concurrent writers race; the last write wins.
type FileStore struct {
	path string
	log  zerolog.Logger
}

// NewFileStore returns a store backed by path. The parent directory is
// created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		log:  logger.WithComponent("quota-store"),
	}
}

// DefaultPath is <user config dir>/simpleinvoice/state.json, or "" when the
// platform has no config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "simpleinvoice", "state.json")
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(key string) (string, bool) {
	values := f.load()
	v, ok := values[key]
	return v, ok
}

func (f *FileStore) Set(key, value string) {
	if f.path == "" {
		return
	}

	values := f.load()
	values[key] = value

	if err := f.save(values); err != nil {
		f.log.Warn().
			Err(err).
			Str("path", f.path).
			Str("key", key).
			Msg("Failed to persist local state, value dropped")
	}
}

// Delete removes key. Missing keys are ignored.
func (f *FileStore) Delete(key string) {
	if f.path == "" {
		return
	}
	values := f.load()
	if _, ok := values[key]; !ok {
		return
	}
	delete(values, key)
	if err := f.save(values); err != nil {
		f.log.Warn().Err(err).Str("path", f.path).Msg("Failed to persist local state")
	}
}

func (f *FileStore) load() map[string]string {
	values := map[string]string{}
	if f.path == "" {
		return values
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.log.Warn().Err(err).Str("path", f.path).Msg("Failed to read local state, treating as empty")
		}
		return values
	}

	if err := json.Unmarshal(data, &values); err != nil {
		f.log.Warn().Err(err).Str("path", f.path).Msg("Local state is corrupt, treating as empty")
		return map[string]string{}
	}
	// A literal null decodes to a nil map.
	if values == nil {
		values = map[string]string{}
	}
	return values
}

func (f *FileStore) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
