package bundle

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Current data format version for migration support.
const dataVersion = 1

// ErrNotFound is returned when no bundle matches the lookup.
var ErrNotFound = errors.New("bundle not found")

// Config controls where a Store keeps its data.
type Config struct {
	DataDir  string
	ReadOnly bool
}

// DefaultDataDir returns the default data directory following the XDG spec.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "apiprobe")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".apiprobe", "data")
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "apiprobe")
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return filepath.Join(appData, "apiprobe")
		}
		return filepath.Join(home, "AppData", "Local", "apiprobe")
	}
	return filepath.Join(home, ".local", "share", "apiprobe")
}

// storeData holds all persisted bundles.
type storeData struct {
	Version int           `json:"version"`
	Bundles []*TestBundle `json:"bundles,omitempty"`
}

// Store is a file-backed bundle store. Every mutation is written through to
// disk immediately; the dataset is small enough that debouncing is not worth
// the failure modes.
type Store struct {
	cfg  Config
	mu   sync.RWMutex
	data *storeData
}

// NewStore creates a store for the given configuration. An empty DataDir
// selects the default location.
func NewStore(cfg Config) *Store {
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}
	return &Store{
		cfg:  cfg,
		data: &storeData{Version: dataVersion},
	}
}

// Open loads persisted bundles from disk, starting fresh when no data file
// exists yet.
func (s *Store) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.cfg.DataDir, 0700); err != nil {
		return err
	}

	raw, err := os.ReadFile(s.dataFile())
	if err != nil {
		if os.IsNotExist(err) {
			s.data = &storeData{Version: dataVersion}
			return nil
		}
		return err
	}

	var stored storeData
	if err := json.Unmarshal(raw, &stored); err != nil {
		return err
	}
	if stored.Version == 0 {
		stored.Version = dataVersion
	}
	s.data = &stored
	return nil
}

// Save persists a bundle. A missing ID is assigned, a zero timestamp is set
// to now, and the operation method is normalized to upper case. Saving an
// existing ID replaces that bundle.
func (s *Store) Save(b *TestBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.ReadOnly {
		return errors.New("store is read-only")
	}
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Timestamp.IsZero() {
		b.Timestamp = time.Now().UTC()
	}
	b.Operation.Method = strings.ToUpper(b.Operation.Method)

	replaced := false
	for i, existing := range s.data.Bundles {
		if existing.ID == b.ID {
			s.data.Bundles[i] = b
			replaced = true
			break
		}
	}
	if !replaced {
		s.data.Bundles = append(s.data.Bundles, b)
	}

	return s.persist()
}

// List returns all bundles, newest first.
func (s *Store) List() []*TestBundle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*TestBundle, len(s.data.Bundles))
	copy(result, s.data.Bundles)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result
}

// Get returns the bundle with the given ID.
func (s *Store) Get(id string) (*TestBundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.data.Bundles {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, ErrNotFound
}

// Match returns all bundles saved for the given operation, newest first.
func (s *Store) Match(method, path string) []*TestBundle {
	var result []*TestBundle
	for _, b := range s.List() {
		if b.Matches(method, path) {
			result = append(result, b)
		}
	}
	return result
}

// Delete removes the bundle with the given ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.ReadOnly {
		return errors.New("store is read-only")
	}
	for i, b := range s.data.Bundles {
		if b.ID == id {
			s.data.Bundles = append(s.data.Bundles[:i], s.data.Bundles[i+1:]...)
			return s.persist()
		}
	}
	return ErrNotFound
}

func (s *Store) dataFile() string {
	return filepath.Join(s.cfg.DataDir, "bundles.json")
}

// persist writes the data file atomically via a temp file rename.
// Caller must hold the write lock.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.dataFile() + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.dataFile()); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
