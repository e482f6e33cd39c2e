package mongo

import (
	"context"
	"errors"
)

// Healthcheck returns a function that pings the server through the session.
func Healthcheck(s *Session) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := s.Client().Ping(ctx, nil); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
