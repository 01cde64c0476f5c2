package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// ErrQuotaExceeded is returned by a Store when the encoded history is larger
// than the space it is allowed to use.
var ErrQuotaExceeded = errors.New("history quota exceeded")

// Store persists the whole history list as one value.
type Store interface {
	Load() ([]Entry, error)
	Save(entries []Entry) error
	Clear() error
}

// FileStore keeps the history as a JSON file.
type FileStore struct {
	path  string
	quota int64 // bytes, 0 = unlimited
}

// NewFileStore returns a store writing to path. A positive quota caps the
// encoded size in bytes.
func NewFileStore(path string, quota int64) *FileStore {
	return &FileStore{path: path, quota: quota}
}

// DefaultPath returns the history file inside the config directory.
func DefaultPath(configDir string) string {
	return filepath.Join(configDir, "history.json")
}

// Path returns the file the store writes to.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the saved entries, or nil when nothing was saved yet.
func (s *FileStore) Load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read history")
	}
	return decode(data)
}

// Save replaces the file contents. The file is written to a temporary name
// and renamed so a failed write never leaves a truncated history behind.
func (s *FileStore) Save(entries []Entry) error {
	data, err := encode(entries, s.quota)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(err, "create history directory")
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(err, "write history")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "replace history")
	}
	return nil
}

// Clear deletes the history file.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove history")
	}
	return nil
}

// MemoryStore keeps the encoded history in memory. It applies the same size
// quota as FileStore and never touches the disk.
type MemoryStore struct {
	mu    sync.Mutex
	data  []byte
	quota int64
	saves int
}

func NewMemoryStore(quota int64) *MemoryStore {
	return &MemoryStore{quota: quota}
}

func (s *MemoryStore) Load() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, nil
	}
	return decode(s.data)
}

func (s *MemoryStore) Save(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	data, err := encode(entries, s.quota)
	if err != nil {
		return err
	}
	s.data = data
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

// Saves returns the number of Save calls, including rejected ones.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func encode(entries []Entry, quota int64) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, errors.Wrap(err, "encode history")
	}
	if quota > 0 && int64(len(data)) > quota {
		return nil, errors.Wrapf(ErrQuotaExceeded, "%d bytes over a %d byte quota", len(data), quota)
	}
	return data, nil
}

func decode(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "decode history")
	}
	return entries, nil
}
