package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8765"`

	MoveTimeout    time.Duration `env:"MOVE_TIMEOUT" envDefault:"30s"`
	MoveWarning    time.Duration `env:"MOVE_WARNING" envDefault:"10s"`
	ReconnectGrace time.Duration `env:"RECONNECT_GRACE" envDefault:"30s"`

	WSSendBuffer   int      `env:"WS_SEND_BUFFER" envDefault:"64"`
	WSReadLimit    int64    `env:"WS_READ_LIMIT" envDefault:"4096"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// Optional archive of finished games.
	PostgresDSN string `env:"POSTGRES_DSN"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
