package config

import "testing"

func TestLoadBotDefaults(t *testing.T) {
	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.WSURL != "ws://localhost:8765/ws" {
		t.Fatalf("WSURL = %q, want ws://localhost:8765/ws", cfg.WSURL)
	}
	if cfg.UserID != "bot" || cfg.RoomName != "Bot Room" {
		t.Fatalf("unexpected bot config: %+v", cfg)
	}
}

func TestLoadBotOverrides(t *testing.T) {
	t.Setenv("WS_URL", "ws://127.0.0.1:9000/ws")
	t.Setenv("USER_ID", "bot-b")
	t.Setenv("ROOM_ID", "k3x9q2")

	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.WSURL != "ws://127.0.0.1:9000/ws" {
		t.Fatalf("WSURL = %q", cfg.WSURL)
	}
	if cfg.UserID != "bot-b" || cfg.RoomID != "k3x9q2" {
		t.Fatalf("unexpected bot config: %+v", cfg)
	}
}
