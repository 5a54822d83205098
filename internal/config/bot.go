package config

import "github.com/caarlos0/env/v11"

type BotConfig struct {
	WSURL    string `env:"WS_URL" envDefault:"ws://localhost:8765/ws"`
	UserID   string `env:"USER_ID" envDefault:"bot"`
	UserName string `env:"USER_NAME" envDefault:"Bot"`
	// RoomID joins an existing room; empty creates RoomName.
	RoomID   string `env:"ROOM_ID"`
	RoomName string `env:"ROOM_NAME" envDefault:"Bot Room"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
