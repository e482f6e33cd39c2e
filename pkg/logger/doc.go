// Package logger builds *slog.Logger instances from functional options and
// provides helpers that keep attribute names consistent across commands.
//
// New selects slog.NewTextHandler or slog.NewJSONHandler according to the
// configured Format, applies static attributes, and wraps the result in
// LogHandlerDecorator, which runs every registered ContextExtractor before
// delegating to the underlying handler. This is how request scoped values
// such as the run id end up on each record without being passed around.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(os.Getenv("APP_ENV"), "bookstore"),
//	    logger.WithContextExtractors(runid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "books inserted",
//	    logger.Collection("books"),
//	    logger.Count(10),
//	)
//
// Records go to os.Stderr unless WithOutput says otherwise.
//
// Error returns an empty attribute for a nil error, so it can be passed
// unconditionally:
//
//	log.Info("operation finished", logger.Error(err))
package logger
