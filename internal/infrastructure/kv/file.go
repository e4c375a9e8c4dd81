// Package kv holds the client's local token stores.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/ErlanBelekov/focusboard/internal/repository"
	"github.com/fsnotify/fsnotify"
)

// FileStore persists key/value pairs as a small JSON object on disk.
// Writes go through a temp file and rename so readers never see a partial file.
type FileStore struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger.With("component", "token_file")}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", err
	}
	return values[repository.TokenKey], nil
}

func (s *FileStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	values[repository.TokenKey] = token
	return s.write(values)
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := values[repository.TokenKey]; !ok {
		return nil
	}
	delete(values, repository.TokenKey)
	return s.write(values)
}

// Ping reports whether the store's directory is usable.
func (s *FileStore) Ping(_ context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("token dir: %w", err)
	}
	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", s.path, err)
	}
	return values, nil
}

func (s *FileStore) write(values map[string]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token file: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}

// Watch calls onChange whenever the token file is written, replaced or
// removed, until ctx is done. The parent directory is watched because the
// file itself is replaced by rename on every write.
func (s *FileStore) Watch(ctx context.Context, onChange func()) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(s.path)
	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
					onChange()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.logger.Warn("token file watcher", "error", err)
			}
		}
	}()
	return nil
}

var (
	_ repository.TokenStore     = (*FileStore)(nil)
	_ repository.ChangeNotifier = (*FileStore)(nil)
)
