package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	AdminAPIKey string `env:"ADMIN_API_KEY"`

	WalletSecretHex string `env:"WALLET_SECRET,required,notEmpty"`

	SnapshotPath     string        `env:"SNAPSHOT_PATH" envDefault:"data/arena_state.json"`
	SnapshotDebounce time.Duration `env:"SNAPSHOT_DEBOUNCE" envDefault:"2s"`
	AutosaveEvery    time.Duration `env:"AUTOSAVE_EVERY" envDefault:"60s"`

	GameServerWSURL string `env:"GAME_WS_URL"`

	InitialBots       int     `env:"INITIAL_BOTS" envDefault:"8"`
	SystemWalletFloor float64 `env:"SYSTEM_WALLET_FLOOR" envDefault:"100"`
	UserWalletFloor   float64 `env:"USER_WALLET_FLOOR" envDefault:"50"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
