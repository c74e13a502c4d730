package disk

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sir_venger/upload_lite/internal/models"
)

func TestStore_SinkCommitOpen(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "spool"), filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatal(err)
	}

	payload := bytes.Repeat([]byte("0123456789"), 100)
	sink, err := store.CreateSink("u1", "data.bin")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sink.Write(payload); err != nil {
		t.Fatal(err)
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	// До коммита файл живёт в spool, в постоянном каталоге его нет.
	if _, _, err := store.Open("u1", "data.bin"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("open before commit: %v", err)
	}

	files, err := store.Commit(context.Background(), "u1", []models.StoredFile{{Name: "data.bin", Size: int64(len(payload))}})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Path == "" {
		t.Fatalf("commit result: %+v", files)
	}

	rc, size, err := store.Open("u1", "data.bin")
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	if size != int64(len(payload)) {
		t.Fatalf("size = %d, want %d", size, len(payload))
	}
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("payload mismatch after commit")
	}

	// Spool-каталог загрузки после коммита пуст.
	if _, err := os.Stat(filepath.Join(store.SpoolDir(), "u1", "data.bin")); !os.IsNotExist(err) {
		t.Fatalf("spool file survived commit: %v", err)
	}
}

func TestStore_SafeName(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "spool"), filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"", ".", "..", "   "} {
		if _, err := store.CreateSink("u1", name); !errors.Is(err, models.ErrBadFilename) {
			t.Errorf("CreateSink(%q): err = %v", name, err)
		}
	}

	// Путь с каталогами сводится к базовому имени.
	sink, err := store.CreateSink("u1", "../../etc/passwd")
	if err != nil {
		t.Fatal(err)
	}
	sink.Close()
	if _, err := os.Stat(filepath.Join(store.SpoolDir(), "u1", "passwd")); err != nil {
		t.Fatalf("sanitized file missing: %v", err)
	}
}

func TestSweepOnce_RemovesStalePartials(t *testing.T) {
	spool := t.TempDir()

	// Полу-загрузка: частичный файл с состаренным модтаймом.
	stale := filepath.Join(spool, "aborted1")
	if err := os.MkdirAll(stale, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(stale, "part.bin"), []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(stale, "part.bin"), old, old); err != nil {
		t.Fatal(err)
	}

	// Свежая загрузка остаётся нетронутой.
	fresh := filepath.Join(spool, "inflight")
	if err := os.MkdirAll(fresh, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(fresh, "part.bin"), []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := sweepOnce(spool, 24*time.Hour); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale dir not removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatal("fresh dir removed")
	}
}
