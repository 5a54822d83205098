package config

import (
	"testing"
	"time"
)

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":8765" {
		t.Fatalf("HTTPAddr = %q, want :8765", cfg.HTTPAddr)
	}
	if cfg.MoveTimeout != 30*time.Second {
		t.Fatalf("MoveTimeout = %v, want 30s", cfg.MoveTimeout)
	}
	if cfg.MoveWarning != 10*time.Second {
		t.Fatalf("MoveWarning = %v, want 10s", cfg.MoveWarning)
	}
	if cfg.ReconnectGrace != 30*time.Second {
		t.Fatalf("ReconnectGrace = %v, want 30s", cfg.ReconnectGrace)
	}
	if cfg.WSSendBuffer != 64 {
		t.Fatalf("WSSendBuffer = %d, want 64", cfg.WSSendBuffer)
	}
	if cfg.PostgresDSN != "" {
		t.Fatalf("PostgresDSN = %q, want empty", cfg.PostgresDSN)
	}
}

func TestLoadServerParseTypes(t *testing.T) {
	t.Setenv("MOVE_TIMEOUT", "45s")
	t.Setenv("RECONNECT_GRACE", "1m")
	t.Setenv("WS_READ_LIMIT", "8192")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.MoveTimeout != 45*time.Second {
		t.Fatalf("MoveTimeout = %v, want 45s", cfg.MoveTimeout)
	}
	if cfg.ReconnectGrace != time.Minute {
		t.Fatalf("ReconnectGrace = %v, want 1m", cfg.ReconnectGrace)
	}
	if cfg.WSReadLimit != 8192 {
		t.Fatalf("WSReadLimit = %d, want 8192", cfg.WSReadLimit)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadServerRejectsBadDuration(t *testing.T) {
	t.Setenv("MOVE_TIMEOUT", "soon")

	if _, err := LoadServer(); err == nil {
		t.Fatal("LoadServer() expected error, got nil")
	}
}
