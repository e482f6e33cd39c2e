// Package runid tags a single command invocation with a UUIDv4 so that all
// log records emitted while it runs can be correlated.
//
//	ctx = runid.WithContext(ctx, runid.New())
//	log := logger.New(logger.WithContextExtractors(runid.LoggerExtractor()))
//	log.InfoContext(ctx, "seeding") // ... run_id=6f1c...
package runid
