package kv_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/infrastructure/kv"
	"github.com/ErlanBelekov/focusboard/internal/repository"
)

func newFileStore(t *testing.T) *kv.FileStore {
	t.Helper()
	return kv.NewFileStore(filepath.Join(t.TempDir(), "state", "token.json"), slog.Default())
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	s := newFileStore(t)

	got, err := s.Load(context.Background())
	if err != nil || got != "" {
		t.Fatalf("Load = %q, %v; want empty", got, err)
	}
}

func TestFileStore_SaveLoadClear(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "tok-abc"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got, _ := s.Load(ctx); got != "tok-abc" {
		t.Fatalf("Load = %q, want tok-abc", got)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		t.Fatalf("file is not JSON: %v", err)
	}
	if values[repository.TokenKey] != "tok-abc" {
		t.Errorf("file = %v, want key %q", values, repository.TokenKey)
	}

	info, _ := os.Stat(s.Path())
	if info.Mode().Perm() != 0o600 {
		t.Errorf("perm = %v, want 0600", info.Mode().Perm())
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got, _ := s.Load(ctx); got != "" {
		t.Errorf("Load after clear = %q", got)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	s := newFileStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Load(context.Background()); err == nil {
		t.Error("expected parse error for corrupt file")
	}
}

func TestFileStore_WatchReportsExternalWrite(t *testing.T) {
	s := newFileStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	if err := s.Watch(ctx, func() { changed <- struct{}{} }); err != nil {
		t.Fatalf("watch: %v", err)
	}

	other := kv.NewFileStore(s.Path(), slog.Default())
	if err := other.Save(context.Background(), "from-another-process"); err != nil {
		t.Fatalf("save: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification within 5s")
	}
}
