package mongo

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/v2/event"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Session is an open connection bound to one database and collection.
type Session struct {
	client     *mongo.Client
	database   *mongo.Database
	collection *mongo.Collection

	closeOnce sync.Once
	closed    atomic.Bool
}

// Option customizes how Connect builds the client.
type Option func(*options.ClientOptions)

// WithCommandLogger logs every command the driver sends at debug level and
// every failed command at warn level.
func WithCommandLogger(log *slog.Logger) Option {
	return func(o *options.ClientOptions) {
		if log == nil {
			return
		}
		o.SetMonitor(&event.CommandMonitor{
			Started: func(ctx context.Context, e *event.CommandStartedEvent) {
				log.DebugContext(ctx, "mongo command started",
					slog.String("command", e.CommandName),
					slog.String("database", e.DatabaseName),
					slog.Int64("request_id", e.RequestID),
				)
			},
			Succeeded: func(ctx context.Context, e *event.CommandSucceededEvent) {
				log.DebugContext(ctx, "mongo command succeeded",
					slog.String("command", e.CommandName),
					slog.Int64("request_id", e.RequestID),
					slog.Duration("duration", e.Duration),
				)
			},
			Failed: func(ctx context.Context, e *event.CommandFailedEvent) {
				log.WarnContext(ctx, "mongo command failed",
					slog.String("command", e.CommandName),
					slog.Int64("request_id", e.RequestID),
					slog.Duration("duration", e.Duration),
					slog.Any("failure", e.Failure),
				)
			},
		})
	}
}

func clientOptions(cfg Config, opts ...Option) *options.ClientOptions {
	o := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetRetryWrites(cfg.RetryWrites).
		SetRetryReads(cfg.RetryReads)
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Connect validates cfg, connects to the server and verifies the
// connection with a ping. Configuration errors are returned before any
// network activity.
func Connect(ctx context.Context, cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var lastErr error
	for i := range cfg.attempts() {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.Join(ErrFailedToConnect, ctx.Err(), lastErr)
			case <-time.After(cfg.RetryInterval):
			}
		}

		client, err := mongo.Connect(clientOptions(cfg, opts...))
		if err != nil {
			lastErr = err
			continue
		}
		if err := client.Ping(ctx, nil); err != nil {
			lastErr = err
			_ = client.Disconnect(context.WithoutCancel(ctx))
			continue
		}

		return newSession(client, cfg), nil
	}

	return nil, errors.Join(ErrFailedToConnect, lastErr)
}

func newSession(client *mongo.Client, cfg Config) *Session {
	db := client.Database(cfg.Database)
	return &Session{
		client:     client,
		database:   db,
		collection: db.Collection(cfg.Collection),
	}
}

func (s *Session) Client() *mongo.Client { return s.client }

func (s *Session) Database() *mongo.Database { return s.database }

func (s *Session) Collection() *mongo.Collection { return s.collection }

// Close disconnects the client. Only the first call does any work; later
// calls return nil.
func (s *Session) Close(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		if dErr := s.client.Disconnect(ctx); dErr != nil {
			err = errors.Join(ErrFailedToDisconnect, dErr)
		}
		s.closed.Store(true)
	})
	return err
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	return s.closed.Load()
}
