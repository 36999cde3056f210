package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nisim1010/Bingo-Game/internal/storage/postgres"
	redisstore "github.com/nisim1010/Bingo-Game/internal/storage/redis"
)

// Storage backend names accepted in StorageConfig.Type
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
	Redis       redisstore.Config `yaml:"redis"`
	Archive     ArchiveConfig     `yaml:"archive"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`

	// PublicBaseURL is the externally reachable base URL used when
	// building join links and QR codes
	PublicBaseURL string `yaml:"public_base_url"`
}

// Addr returns the host:port the server binds to
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig selects the primary store backend
type StorageConfig struct {
	Type string `yaml:"type"`
}

// ArchiveConfig enables the optional PostgreSQL win archive
type ArchiveConfig struct {
	Enabled  bool            `yaml:"enabled"`
	Postgres postgres.Config `yaml:"postgres"`
}

// LeaderboardConfig holds leaderboard-specific configuration
type LeaderboardConfig struct {
	Size int `yaml:"size"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file. Environment variables
// referenced in the file are expanded, and a handful of BINGO_*
// variables override the result afterwards so containers can
// reconfigure without editing the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		// SSE responses are long-lived; zero would kill them, so the
		// default is deliberately generous
		c.Server.WriteTimeout = 10 * time.Minute
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}
	if c.Server.PublicBaseURL == "" {
		c.Server.PublicBaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}

	if c.Storage.Type == "" {
		c.Storage.Type = StorageMemory
	}

	defaults := redisstore.DefaultConfig()
	if c.Redis.URL == "" {
		c.Redis.URL = defaults.URL
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = defaults.PoolSize
	}
	if c.Redis.MinIdleConns == 0 {
		c.Redis.MinIdleConns = defaults.MinIdleConns
	}
	if c.Redis.TxnAttempts == 0 {
		c.Redis.TxnAttempts = defaults.TxnAttempts
	}

	pgDefaults := postgres.DefaultConfig()
	if c.Archive.Postgres.Host == "" {
		c.Archive.Postgres.Host = pgDefaults.Host
	}
	if c.Archive.Postgres.Port == 0 {
		c.Archive.Postgres.Port = pgDefaults.Port
	}
	if c.Archive.Postgres.User == "" {
		c.Archive.Postgres.User = pgDefaults.User
	}
	if c.Archive.Postgres.Database == "" {
		c.Archive.Postgres.Database = pgDefaults.Database
	}
	if c.Archive.Postgres.SSLMode == "" {
		c.Archive.Postgres.SSLMode = pgDefaults.SSLMode
	}
	if c.Archive.Postgres.MaxConnections == 0 {
		c.Archive.Postgres.MaxConnections = pgDefaults.MaxConnections
	}
	if c.Archive.Postgres.MinConnections == 0 {
		c.Archive.Postgres.MinConnections = pgDefaults.MinConnections
	}
	if c.Archive.Postgres.MaxConnLifetime == 0 {
		c.Archive.Postgres.MaxConnLifetime = pgDefaults.MaxConnLifetime
	}

	if c.Leaderboard.Size == 0 {
		c.Leaderboard.Size = 10
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("BINGO_STORAGE_TYPE"); v != "" {
		c.Storage.Type = v
	}
	if v := os.Getenv("BINGO_REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := os.Getenv("BINGO_PUBLIC_BASE_URL"); v != "" {
		c.Server.PublicBaseURL = v
	}
	if v := os.Getenv("BINGO_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

func (c *Config) validate() error {
	switch c.Storage.Type {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	return nil
}
