// Package mongo manages the connection to the bookstore database.
//
// Configuration comes from environment variables (see Config) and is
// validated before any network activity, so a missing MONGODB_URI is
// reported immediately as ErrMissingConnectionString. Connect dials the
// server, pings it and returns a Session bound to the configured database
// and collection.
//
// Run is the usual entry point for a command: it opens a session, runs the
// supplied function and always releases the connection afterwards, whether
// the function returned nil, an error, or panicked.
//
// # Usage
//
//	cfg, err := mongo.LoadConfig()
//	if err != nil {
//		log.Fatal(err) // configuration error
//	}
//
//	err = mongo.Run(ctx, cfg, func(ctx context.Context, s *mongo.Session) error {
//		_, err := s.Collection().InsertOne(ctx, bson.D{{Key: "title", Value: "Dune"}})
//		return err
//	})
//
// # Error Handling
//
// Configuration failures match ErrMissingConnectionString or ErrInvalidConfig
// (see IsConfigError). Connection failures are joined with ErrFailedToConnect
// and carry the last driver error.
//
// Documentation for the official driver: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2.
package mongo
