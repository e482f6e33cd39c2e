package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/dmitrymomot/bookstore/internal/bookstore"
	"github.com/dmitrymomot/bookstore/internal/report"
	"github.com/dmitrymomot/bookstore/pkg/config"
	"github.com/dmitrymomot/bookstore/pkg/logger"
	"github.com/dmitrymomot/bookstore/pkg/mongo"
	"github.com/dmitrymomot/bookstore/pkg/runid"
)

const serviceName = "bookstore"

const (
	flagEnvFile   = "env-file"
	flagMetrics   = "metrics"
	flagSeedFile  = "file"
	flagLogFormat = "log-format"
)

// appConfig holds the settings that shape the process itself; database
// settings live in mongo.Config.
type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`
}

type app struct {
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger
}

func newApp(stdout, stderr io.Writer) *cli.App {
	a := &app{
		stdout: stdout,
		stderr: stderr,
		log:    slog.New(slog.NewTextHandler(stderr, nil)),
	}

	return &cli.App{
		Name:      serviceName,
		Usage:     "seed and query the bookstore MongoDB collection",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagEnvFile,
				Usage: "load environment variables from this .env file before reading configuration",
			},
			&cli.StringFlag{
				Name:    flagLogFormat,
				Usage:   "log format: text or json (default: text on a terminal, json otherwise)",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.BoolFlag{
				Name:  flagMetrics,
				Usage: "print operation metrics in Prometheus text format to stderr on exit",
			},
		},
		Before: a.before,
		After:  a.after,
		Commands: []*cli.Command{
			{
				Name:  "seed",
				Usage: "insert the seed books in one batch (running it twice duplicates them)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagSeedFile,
						Usage: "read books from this YAML file instead of the built-in catalogue",
					},
				},
				Action: a.seed,
			},
			{
				Name:  "queries",
				Usage: "run the find, update, delete, sort and pagination queries",
				Action: a.withRunner("queries", func(ctx context.Context, r *bookstore.Runner, s *bookstore.Store) error {
					return r.Queries(ctx, s)
				}),
			},
			{
				Name:  "aggregate",
				Usage: "run the genre, author and decade aggregation pipelines",
				Action: a.withRunner("aggregate", func(ctx context.Context, r *bookstore.Runner, s *bookstore.Store) error {
					return r.Aggregations(ctx, s)
				}),
			},
			{
				Name:  "indexes",
				Usage: "create the title and author/year indexes and explain two queries",
				Action: a.withRunner("indexes", func(ctx context.Context, r *bookstore.Runner, s *bookstore.Store) error {
					return r.Indexes(ctx, s)
				}),
			},
			{
				Name:  "all",
				Usage: "run queries, aggregations and indexing in one session",
				Action: a.withRunner("all", func(ctx context.Context, r *bookstore.Runner, s *bookstore.Store) error {
					return r.All(ctx, s)
				}),
			},
			{
				Name:   "ping",
				Usage:  "check that the database is reachable",
				Action: a.ping,
			},
		},
		// Errors are logged by the commands; main decides the exit code.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func (a *app) before(c *cli.Context) error {
	if path := c.String(flagEnvFile); path != "" {
		if err := config.LoadEnv(path); err != nil {
			a.log.Error("configuration error", logger.Error(err))
			return err
		}
	}

	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		a.log.Error("configuration error", logger.Error(err))
		return err
	}

	format, err := resolveFormat(c.String(flagLogFormat), a.stderr)
	if err != nil {
		a.log.Error("configuration error", logger.Error(err))
		return err
	}

	a.log = logger.New(
		logger.WithEnvironment(cfg.Env, serviceName),
		logger.WithFormat(format),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithOutput(a.stderr),
		logger.WithContextExtractors(runid.LoggerExtractor()),
	)
	return nil
}

func (a *app) after(c *cli.Context) error {
	if c.Bool(flagMetrics) {
		bookstore.WriteMetrics(a.stderr)
	}
	return nil
}

// resolveFormat honours an explicit format and otherwise picks text for
// terminals and json for pipes and files.
func resolveFormat(explicit string, w io.Writer) (logger.Format, error) {
	if explicit != "" {
		return logger.ParseFormat(explicit)
	}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return logger.FormatText, nil
	}
	return logger.FormatJSON, nil
}

// session loads the database configuration, opens a session, runs fn and
// releases the connection. Configuration problems are reported before any
// network activity; everything else is logged as a database error.
func (a *app) session(c *cli.Context, command string, fn func(ctx context.Context, sess *mongo.Session) error) error {
	ctx := runid.WithContext(c.Context, runid.New())
	log := a.log.With(logger.Command(command))

	cfg, err := mongo.LoadConfig()
	if err != nil {
		log.ErrorContext(ctx, "configuration error", logger.Error(err))
		return err
	}

	start := time.Now()
	log.InfoContext(ctx, "connecting", logger.Database(cfg.Database), logger.Collection(cfg.Collection))

	err = mongo.Run(ctx, cfg, fn, mongo.WithCommandLogger(log.With(logger.Component("mongo"))))
	if err != nil {
		if mongo.IsConfigError(err) {
			log.ErrorContext(ctx, "configuration error", logger.Error(err))
		} else {
			log.ErrorContext(ctx, "database error", logger.Error(err), logger.Duration(time.Since(start)))
		}
		return err
	}

	log.InfoContext(ctx, "done", logger.Duration(time.Since(start)))
	return nil
}

func (a *app) withRunner(command string, fn func(context.Context, *bookstore.Runner, *bookstore.Store) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		return a.session(c, command, func(ctx context.Context, sess *mongo.Session) error {
			runner := bookstore.NewRunner(report.New(a.stdout), a.log.With(logger.Command(command)))
			return fn(ctx, runner, bookstore.NewStore(sess.Collection()))
		})
	}
}

func (a *app) seed(c *cli.Context) error {
	books := bookstore.SeedBooks()
	if path := c.String(flagSeedFile); path != "" {
		var err error
		if books, err = bookstore.LoadSeedFile(path); err != nil {
			a.log.Error("configuration error", logger.Command("seed"), logger.Error(err))
			return err
		}
	}

	return a.withRunner("seed", func(ctx context.Context, r *bookstore.Runner, s *bookstore.Store) error {
		return r.Seed(ctx, s, books)
	})(c)
}

func (a *app) ping(c *cli.Context) error {
	return a.session(c, "ping", func(ctx context.Context, sess *mongo.Session) error {
		if err := mongo.Healthcheck(sess)(ctx); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "* %s is reachable\n", sess.Database().Name())
		return nil
	})
}
