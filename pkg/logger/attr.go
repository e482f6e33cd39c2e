package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Command records the CLI command under the key "command".
func Command(name string) slog.Attr {
	return slog.String("command", name)
}

// Operation records a database operation name under the key "op".
func Operation(name string) slog.Attr {
	return slog.String("op", name)
}

// Database records the database name under the key "database".
func Database(name string) slog.Attr {
	return slog.String("database", name)
}

// Collection records the collection name under the key "collection".
func Collection(name string) slog.Attr {
	return slog.String("collection", name)
}

// Count records a document count under the key "count".
func Count(n int64) slog.Attr {
	return slog.Int64("count", n)
}

// Duration records an elapsed time under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
