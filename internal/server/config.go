package server

import (
	"errors"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the serve-mode configuration, loaded from a TOML file. Every
// field has a working default so `ticklist serve` runs with no file at all.
type Config struct {
	Addr        string `toml:"addr"`
	DBPath      string `toml:"db_path"`
	TokenSecret string `toml:"token_secret"`
	TokenTTL    string `toml:"token_ttl"`
}

const (
	defaultAddr     = "127.0.0.1:8787"
	defaultTokenTTL = 30 * 24 * time.Hour
)

func DefaultConfig() Config {
	return Config{
		Addr:     defaultAddr,
		TokenTTL: defaultTokenTTL.String(),
	}
}

// LoadConfig reads a TOML config file. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, err
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.TokenTTL == "" {
		cfg.TokenTTL = defaultTokenTTL.String()
	}
	return cfg, nil
}

func (c Config) tokenTTL() time.Duration {
	d, err := time.ParseDuration(c.TokenTTL)
	if err != nil || d <= 0 {
		return defaultTokenTTL
	}
	return d
}
