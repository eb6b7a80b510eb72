package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ticklist/internal/store"
)

const credFileName = "credentials.json"

// Credentials is the on-disk session state for the remote backend.
type Credentials struct {
	ServerURL string    `json:"serverUrl"`
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	SavedAt   time.Time `json:"savedAt"`
}

func credFilePath() (string, error) {
	dir, err := store.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

// LoadCredentials returns the saved session, or nil when not logged in. The
// TICKLIST_TOKEN environment variable overrides the file.
func LoadCredentials() (*Credentials, error) {
	if env := strings.TrimSpace(os.Getenv("TICKLIST_TOKEN")); env != "" {
		return &Credentials{Token: env}, nil
	}
	path, err := credFilePath()
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return &creds, nil
}

// SaveCredentials writes the session with owner-only permissions.
func SaveCredentials(creds Credentials) error {
	creds.Token = strings.TrimSpace(creds.Token)
	if creds.Token == "" {
		return errors.New("empty token")
	}
	path, err := credFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	creds.SavedAt = time.Now().UTC()
	raw, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// ClearCredentials logs out locally. A missing file is not an error.
func ClearCredentials() error {
	path, err := credFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
