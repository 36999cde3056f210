package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL    string
	PlayerID     string
	IdentityFile string
	Output       string
	Verbose      bool
}

// Identity is the locally stored guest identity
type Identity struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:    getEnvOrDefault("BINGO_SERVER", "http://localhost:8080"),
		PlayerID:     os.Getenv("BINGO_PLAYER"),
		IdentityFile: getEnvOrDefault("BINGO_IDENTITY_FILE", defaultIdentityFile()),
		Output:       "text",
		Verbose:      false,
	}
}

// LoadIdentity loads the stored identity if none was set via flag or env
func (c *Config) LoadIdentity() error {
	if c.PlayerID != "" {
		return nil
	}

	data, err := os.ReadFile(c.IdentityFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No stored identity is fine
		}
		return err
	}

	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return err
	}
	c.PlayerID = identity.PlayerID
	return nil
}

// SaveIdentity writes the identity to the identity file
func (c *Config) SaveIdentity(identity Identity) error {
	c.PlayerID = identity.PlayerID

	dir := filepath.Dir(c.IdentityFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	return os.WriteFile(c.IdentityFile, data, 0600)
}

func defaultIdentityFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bingo/identity.json"
	}
	return filepath.Join(home, ".bingo", "identity.json")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
