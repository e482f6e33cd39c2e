package mongo

import (
	"context"
	"errors"
	"time"
)

// closeTimeout bounds the disconnect issued by Run after the work is done,
// including when the parent context is already cancelled.
const closeTimeout = 10 * time.Second

var connect = Connect

// Run opens a session, hands it to fn and closes it afterwards no matter
// how fn returns. A panic inside fn is re-raised after the session is
// closed. Errors from fn and from closing are joined.
func Run(ctx context.Context, cfg Config, fn func(context.Context, *Session) error, opts ...Option) (err error) {
	sess, err := connect(ctx, cfg, opts...)
	if err != nil {
		return err
	}

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		if cErr := sess.Close(closeCtx); cErr != nil {
			err = errors.Join(err, cErr)
		}
	}()

	return fn(ctx, sess)
}
