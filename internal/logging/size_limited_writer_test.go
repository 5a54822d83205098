package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"

	"gomoku-arena/internal/config"
)

func TestCappedFileStartsOver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	w, err := newCappedFile(path, 1)
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}
	defer w.Close()

	chunk := make([]byte, 512*1024)
	for i := 0; i < 3; i++ {
		if _, err := w.Write(chunk); err != nil {
			t.Fatalf("write chunk %d: %v", i, err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat log: %v", err)
	}
	if info.Size() > 1024*1024 {
		t.Fatalf("expected log <= 1MB, got %d", info.Size())
	}
}

func TestCappedFileReopensAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	w, err := newCappedFile(path, 1)
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}
	if _, err := w.Write([]byte("one\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = w.Close()
	if _, err := w.Write([]byte("two\n")); err != nil {
		t.Fatalf("write after close: %v", err)
	}
	_ = w.Close()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "one\ntwo\n" {
		t.Fatalf("content = %q", b)
	}
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	if err := Init(config.LogConfig{Level: "debug", File: path, MaxMB: 1}); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer Close()

	log.Info().Str("room_id", "abc123").Msg("room_created")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), `"room_created"`) {
		t.Fatalf("expected record in file, got %q", b)
	}
}
