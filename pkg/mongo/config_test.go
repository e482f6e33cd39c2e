package mongo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookstore/pkg/config"
	"github.com/dmitrymomot/bookstore/pkg/mongo"
)

func validConfig() mongo.Config {
	return mongo.Config{
		URI:         "mongodb://localhost:27017",
		Database:    "plp_bookstore",
		Collection:  "books",
		MaxPoolSize: 10,
		MinPoolSize: 1,
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*mongo.Config)
		wantErr error
	}{
		{name: "valid", mutate: func(*mongo.Config) {}},
		{name: "empty uri", mutate: func(c *mongo.Config) { c.URI = "" }, wantErr: mongo.ErrMissingConnectionString},
		{name: "blank uri", mutate: func(c *mongo.Config) { c.URI = "   " }, wantErr: mongo.ErrMissingConnectionString},
		{name: "empty database", mutate: func(c *mongo.Config) { c.Database = "" }, wantErr: mongo.ErrInvalidConfig},
		{name: "empty collection", mutate: func(c *mongo.Config) { c.Collection = " " }, wantErr: mongo.ErrInvalidConfig},
		{name: "pool bounds", mutate: func(c *mongo.Config) { c.MinPoolSize = 20 }, wantErr: mongo.ErrInvalidConfig},
		{name: "unbounded pool", mutate: func(c *mongo.Config) { c.MaxPoolSize = 0; c.MinPoolSize = 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, mongo.IsConfigError(err))
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		config.ResetCache()
		t.Setenv("MONGODB_URI", "mongodb://db.example:27017")
		for _, k := range []string{"MONGODB_DATABASE", "MONGODB_COLLECTION", "MONGODB_RETRY_ATTEMPTS", "MONGODB_CONNECT_TIMEOUT"} {
			t.Setenv(k, "")
			require.NoError(t, os.Unsetenv(k))
		}

		cfg, err := mongo.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "mongodb://db.example:27017", cfg.URI)
		assert.Equal(t, "plp_bookstore", cfg.Database)
		assert.Equal(t, "books", cfg.Collection)
		assert.Equal(t, 1, cfg.RetryAttempts)
		assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
		assert.True(t, cfg.RetryReads)
		assert.True(t, cfg.RetryWrites)
	})

	t.Run("overrides", func(t *testing.T) {
		config.ResetCache()
		t.Setenv("MONGODB_URI", "mongodb://db.example:27017")
		t.Setenv("MONGODB_DATABASE", "shop")
		t.Setenv("MONGODB_COLLECTION", "novels")

		cfg, err := mongo.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "shop", cfg.Database)
		assert.Equal(t, "novels", cfg.Collection)
	})

	t.Run("missing uri", func(t *testing.T) {
		config.ResetCache()
		t.Setenv("MONGODB_URI", "")
		require.NoError(t, os.Unsetenv("MONGODB_URI"))

		_, err := mongo.LoadConfig()
		assert.ErrorIs(t, err, mongo.ErrMissingConnectionString)
	})

	t.Run("malformed duration", func(t *testing.T) {
		config.ResetCache()
		t.Setenv("MONGODB_URI", "mongodb://db.example:27017")
		t.Setenv("MONGODB_CONNECT_TIMEOUT", "soon")

		_, err := mongo.LoadConfig()
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestConnect_ConfigErrorBeforeNetwork(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.URI = ""

	sess, err := mongo.Connect(context.Background(), cfg)
	assert.Nil(t, sess)
	assert.ErrorIs(t, err, mongo.ErrMissingConnectionString)
}

func TestConnect_InvalidURI(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.URI = "http://not-a-mongo-uri"

	sess, err := mongo.Connect(context.Background(), cfg)
	assert.Nil(t, sess)
	assert.ErrorIs(t, err, mongo.ErrFailedToConnect)
	assert.False(t, mongo.IsConfigError(err))
}

func TestRun_ConfigError(t *testing.T) {
	t.Parallel()

	called := false
	err := mongo.Run(context.Background(), mongo.Config{}, func(context.Context, *mongo.Session) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, mongo.ErrMissingConnectionString)
	assert.False(t, called)
}
