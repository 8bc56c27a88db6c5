package store

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FileKV stores each key as its own file under Dir.
type FileKV struct {
	Dir string
}

func (s *FileKV) path(key string) string {
	// Keys are short identifiers, but escape them so any key maps to one file name.
	return filepath.Join(s.Dir, url.PathEscape(key)+".json")
}

func (s *FileKV) Load(key string) (string, bool, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return "", false, errors.New("file store: missing dir")
	}
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(b), true, nil
}

func (s *FileKV) Save(key, value string) error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("file store: missing dir")
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, ".kv-*.tmp", s.path(key), []byte(value), 0o644)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
