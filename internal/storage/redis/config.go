package redis

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g. redis://localhost:6379)
	URL string `yaml:"url"`

	// Pool settings
	PoolSize     int `yaml:"pool_size"`
	MinIdleConns int `yaml:"min_idle_conns"`

	// TxnAttempts bounds optimistic retries per transaction before
	// it fails with model.ErrTransactionConflict
	TxnAttempts int `yaml:"txn_attempts"`
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		TxnAttempts:  10,
	}
}
