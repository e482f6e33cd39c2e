package mongo

import (
	"strings"
	"time"

	"github.com/dmitrymomot/bookstore/pkg/config"
)

// Config represents the connection settings for the bookstore database.
type Config struct {
	URI             string        `env:"MONGODB_URI"`                                  // URI is the MongoDB connection string.
	Database        string        `env:"MONGODB_DATABASE" envDefault:"plp_bookstore"`  // Database is the name of the target database.
	Collection      string        `env:"MONGODB_COLLECTION" envDefault:"books"`        // Collection is the name of the target collection.
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`     // ConnectTimeout is the timeout for establishing a connection.
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`       // MaxPoolSize is the maximum number of pooled connections.
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1"`         // MinPoolSize is the minimum number of pooled connections.
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"` // MaxConnIdleTime is how long a pooled connection may stay idle.
	RetryWrites     bool          `env:"MONGODB_RETRY_WRITES" envDefault:"true"`       // RetryWrites enables driver-level retryable writes.
	RetryReads      bool          `env:"MONGODB_RETRY_READS" envDefault:"true"`        // RetryReads enables driver-level retryable reads.
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"1"`        // RetryAttempts is the number of connection attempts.
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`       // RetryInterval is the wait between connection attempts.
}

// Validate reports configuration errors without touching the network.
func (c Config) Validate() error {
	if strings.TrimSpace(c.URI) == "" {
		return ErrMissingConnectionString
	}
	if strings.TrimSpace(c.Database) == "" {
		return invalidConfig("database name is empty")
	}
	if strings.TrimSpace(c.Collection) == "" {
		return invalidConfig("collection name is empty")
	}
	if c.MinPoolSize > c.MaxPoolSize && c.MaxPoolSize != 0 {
		return invalidConfig("min pool size exceeds max pool size")
	}
	return nil
}

// LoadConfig reads Config from the environment and validates it.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) attempts() int {
	return max(c.RetryAttempts, 1)
}
