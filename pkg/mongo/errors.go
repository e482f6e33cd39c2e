package mongo

import (
	"errors"
	"fmt"
)

var (
	ErrMissingConnectionString = errors.New("mongo connection string is not set, use MONGODB_URI env var")
	ErrInvalidConfig           = errors.New("invalid mongo config")
	ErrFailedToConnect         = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed       = errors.New("mongo healthcheck failed")
	ErrFailedToDisconnect      = errors.New("failed to disconnect from mongo")
)

func invalidConfig(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}

// IsConfigError reports whether err was caused by configuration rather
// than by the database.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrMissingConnectionString) || errors.Is(err, ErrInvalidConfig)
}
