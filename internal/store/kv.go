package store

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// KV is the local key-value store the board snapshot lives in.
type KV interface {
	// Load returns the value for key; ok is false when the key was never saved.
	Load(key string) (value string, ok bool, err error)
	// Save overwrites the value for key.
	Save(key, value string) error
}

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Open returns the KV backend named by backend rooted at dir.
func Open(backend, dir string) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		return &SQLiteKV{Path: filepath.Join(dir, "board.sqlite")}, nil
	case BackendFile:
		return &FileKV{Dir: dir}, nil
	case BackendMemory:
		return NewMemKV(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s (want sqlite|file|memory)", backend)
	}
}

// MemKV keeps values in memory for the lifetime of the process.
type MemKV struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemKV() *MemKV { return &MemKV{m: map[string]string{}} }

func (s *MemKV) Load(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemKV) Save(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = map[string]string{}
	}
	s.m[key] = value
	return nil
}
