package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GlobalConfig holds user preferences that live alongside (but separate from)
// checklist data: the theme value and the remote server to sync against.
type GlobalConfig struct {
	// Theme is "dark" or "light". Empty means "dark".
	Theme string `json:"theme,omitempty"`

	// ServerURL is the remote sync server base URL. Empty means local-only.
	ServerURL string `json:"serverUrl,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.ticklist).
	if v := strings.TrimSpace(os.Getenv("TICKLIST_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ticklist"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		// A corrupt config must not brick the CLI; fall back to defaults.
		return &GlobalConfig{}, nil
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Unique temp file + atomic rename so concurrent CLI/TUI writes can't
	// corrupt the config.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// NormalizeTheme validates a theme preference value.
func NormalizeTheme(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dark":
		return "dark", nil
	case "light":
		return "light", nil
	default:
		return "", fmt.Errorf("invalid theme %q (expected dark|light)", s)
	}
}
