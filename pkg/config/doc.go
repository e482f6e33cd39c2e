// Package config loads application configuration from environment variables.
//
// It combines github.com/joho/godotenv, which reads optional .env files into
// the process environment, with github.com/caarlos0/env/v11, which parses the
// environment into structs annotated with `env` tags.
//
// # Usage
//
//	type MongoConfig struct {
//	    URI      string `env:"MONGODB_URI,required,notEmpty"`
//	    Database string `env:"MONGODB_DATABASE" envDefault:"plp_bookstore"`
//	}
//
//	if err := config.LoadEnv("./deploy/.env"); err != nil {
//	    log.Fatal(err)
//	}
//
//	var cfg MongoConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Each configuration type is parsed once and cached. Tests that change the
// environment between cases should call ResetCache or ForceReload.
//
// # Error Handling
//
// Errors are joined with the package sentinels so callers can use errors.Is:
//
//   - ErrParsingConfig: a variable is missing, empty or malformed.
//   - ErrLoadingEnvFile: an explicitly requested .env file cannot be read.
//   - ErrNilPointer: Load was called with a nil pointer.
package config
