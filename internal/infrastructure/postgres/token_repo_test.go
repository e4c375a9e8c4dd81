package postgres_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ErlanBelekov/focusboard/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/focusboard/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeDB emulates the single client_kv table in memory.
type fakeDB struct {
	rows    map[string]string
	execErr error
}

type fakeRow struct {
	value string
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.value
	return nil
}

func (d *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if d.execErr != nil {
		return pgconn.CommandTag{}, d.execErr
	}
	switch {
	case strings.Contains(sql, "INSERT INTO client_kv"):
		d.rows[args[0].(string)] = args[1].(string)
	case strings.Contains(sql, "DELETE FROM client_kv"):
		delete(d.rows, args[0].(string))
	}
	return pgconn.CommandTag{}, nil
}

func (d *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	v, ok := d.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{value: v}
}

func (d *fakeDB) Ping(context.Context) error { return nil }

func TestTokenRepository_SaveLoadClear(t *testing.T) {
	db := &fakeDB{rows: map[string]string{}}
	repo := postgres.NewTokenRepository(db)
	ctx := context.Background()

	if got, err := repo.Load(ctx); err != nil || got != "" {
		t.Fatalf("empty load = %q, %v", got, err)
	}
	if err := repo.Save(ctx, "tok-1"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if db.rows[repository.TokenKey] != "tok-1" {
		t.Fatalf("row not stored under %q: %v", repository.TokenKey, db.rows)
	}
	if got, _ := repo.Load(ctx); got != "tok-1" {
		t.Fatalf("load = %q, want tok-1", got)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got, _ := repo.Load(ctx); got != "" {
		t.Fatalf("load after clear = %q", got)
	}
}

func TestTokenRepository_SaveError_Wrapped(t *testing.T) {
	dbErr := errors.New("connection reset")
	repo := postgres.NewTokenRepository(&fakeDB{rows: map[string]string{}, execErr: dbErr})

	if err := repo.Save(context.Background(), "tok"); !errors.Is(err, dbErr) {
		t.Errorf("want wrapped dbErr, got %v", err)
	}
}
