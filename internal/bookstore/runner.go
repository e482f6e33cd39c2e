package bookstore

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/bookstore/pkg/logger"
)

// Parameters of the fixed query sequence.
const (
	queryGenre          = "Fantasy"
	queryPublishedAfter = 2000
	queryAuthor         = "George Orwell"
	updateTitle         = "1984"
	updatePrice         = 11.99
	deleteTitle         = "Dune"
	inStockAfter        = 2010
	pageSize            = 5
)

// Seeder inserts the seed catalogue.
type Seeder interface {
	InsertSeed(ctx context.Context, books []Book) (int, error)
}

// Querier covers the find, update and delete operations.
type Querier interface {
	FindByGenre(ctx context.Context, genre string) ([]Book, error)
	FindPublishedAfter(ctx context.Context, year int) ([]Book, error)
	FindByAuthor(ctx context.Context, author string) ([]Book, error)
	UpdatePrice(ctx context.Context, title string, price float64) (UpdateResult, error)
	DeleteByTitle(ctx context.Context, title string) (int64, error)
	FindInStockPublishedAfter(ctx context.Context, year int) ([]Book, error)
	FindSummaries(ctx context.Context) ([]BookSummary, error)
	FindSortedByPrice(ctx context.Context, order SortOrder) ([]Book, error)
	FindPage(ctx context.Context, page, size int) ([]BookSummary, error)
}

// Aggregator runs the aggregation pipelines.
type Aggregator interface {
	AveragePriceByGenre(ctx context.Context) ([]GenreStats, error)
	TopAuthor(ctx context.Context) ([]AuthorCount, error)
	BooksByDecade(ctx context.Context) ([]DecadeCount, error)
}

// Indexer creates indexes and explains queries.
type Indexer interface {
	CreateIndexes(ctx context.Context) ([]string, error)
	Explain(ctx context.Context, filter bson.D) (ExplainResult, error)
}

// Catalog is everything the full run needs. *Store implements it.
type Catalog interface {
	Querier
	Aggregator
	Indexer
}

// Reporter renders results for a human reader.
type Reporter interface {
	Section(title string)
	Books(title string, books []Book)
	Summaries(title string, rows []BookSummary)
	GenreStats(title string, rows []GenreStats)
	AuthorCounts(title string, rows []AuthorCount)
	Decades(title string, rows []DecadeCount)
	Explain(title string, res ExplainResult)
	Status(msg string)
}

// Runner executes the fixed operation sequences, printing each result
// through a Reporter. The first failing operation stops the sequence.
type Runner struct {
	out Reporter
	log *slog.Logger
}

// NewRunner returns a Runner. A nil logger discards records.
func NewRunner(out Reporter, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{out: out, log: log.With(logger.Component("runner"))}
}

// Seed inserts books in one batch and reports the inserted count.
func (r *Runner) Seed(ctx context.Context, s Seeder, books []Book) error {
	n, err := s.InsertSeed(ctx, books)
	if err != nil {
		return err
	}
	r.log.InfoContext(ctx, "books inserted", logger.Operation("insert_many"), logger.Count(int64(n)))
	r.out.Status(fmt.Sprintf("%d books inserted", n))
	return nil
}

// Queries runs the CRUD and advanced query sequence.
func (r *Runner) Queries(ctx context.Context, q Querier) error {
	r.out.Section("Basic CRUD")

	if err := r.books(ctx, fmt.Sprintf("Books in %s genre", queryGenre), func() ([]Book, error) {
		return q.FindByGenre(ctx, queryGenre)
	}); err != nil {
		return err
	}
	if err := r.books(ctx, fmt.Sprintf("Books published after %d", queryPublishedAfter), func() ([]Book, error) {
		return q.FindPublishedAfter(ctx, queryPublishedAfter)
	}); err != nil {
		return err
	}
	if err := r.books(ctx, "Books by "+queryAuthor, func() ([]Book, error) {
		return q.FindByAuthor(ctx, queryAuthor)
	}); err != nil {
		return err
	}

	upd, err := q.UpdatePrice(ctx, updateTitle, updatePrice)
	if err != nil {
		return err
	}
	r.log.InfoContext(ctx, "price updated", logger.Operation("update_price"), logger.Count(upd.Modified))
	r.out.Status(fmt.Sprintf("Updated price for %q to %.2f (matched %d, modified %d)", updateTitle, updatePrice, upd.Matched, upd.Modified))

	deleted, err := q.DeleteByTitle(ctx, deleteTitle)
	if err != nil {
		return err
	}
	r.log.InfoContext(ctx, "book deleted", logger.Operation("delete_by_title"), logger.Count(deleted))
	r.out.Status(fmt.Sprintf("Deleted %q (%d document(s))", deleteTitle, deleted))

	r.out.Section("Advanced queries")

	if err := r.books(ctx, fmt.Sprintf("In-stock books published after %d", inStockAfter), func() ([]Book, error) {
		return q.FindInStockPublishedAfter(ctx, inStockAfter)
	}); err != nil {
		return err
	}

	summaries, err := q.FindSummaries(ctx)
	if err != nil {
		return err
	}
	r.out.Summaries("Projection (title, author, price)", summaries)

	for _, order := range []SortOrder{Ascending, Descending} {
		if err := r.books(ctx, "Sorted by price "+order.String(), func() ([]Book, error) {
			return q.FindSortedByPrice(ctx, order)
		}); err != nil {
			return err
		}
	}

	for page := 1; page <= 2; page++ {
		rows, err := q.FindPage(ctx, page, pageSize)
		if err != nil {
			return err
		}
		r.out.Summaries(fmt.Sprintf("Page %d (%d per page, by title)", page, pageSize), rows)
	}

	return nil
}

// Aggregations runs the three aggregation pipelines.
func (r *Runner) Aggregations(ctx context.Context, a Aggregator) error {
	r.out.Section("Aggregations")

	genres, err := a.AveragePriceByGenre(ctx)
	if err != nil {
		return err
	}
	r.out.GenreStats("Average price by genre", genres)

	authors, err := a.TopAuthor(ctx)
	if err != nil {
		return err
	}
	r.out.AuthorCounts("Author with most books", authors)

	decades, err := a.BooksByDecade(ctx)
	if err != nil {
		return err
	}
	r.out.Decades("Books grouped by decade", decades)

	return nil
}

// ExplainFilters are the queries explained after the indexes are created:
// one served by the title index and one by the compound index.
func ExplainFilters() []bson.D {
	return []bson.D{
		titleFilter(updateTitle),
		{{Key: "author", Value: queryAuthor}, {Key: "published_year", Value: 1949}},
	}
}

// Indexes creates the indexes and prints the explain output of the
// ExplainFilters queries for manual inspection.
func (r *Runner) Indexes(ctx context.Context, ix Indexer) error {
	r.out.Section("Indexing")

	names, err := ix.CreateIndexes(ctx)
	if err != nil {
		return err
	}
	r.log.InfoContext(ctx, "indexes created", logger.Operation("create_indexes"), logger.Count(int64(len(names))))
	for _, name := range names {
		r.out.Status("Index ready: " + name)
	}

	for _, filter := range ExplainFilters() {
		res, err := ix.Explain(ctx, filter)
		if err != nil {
			return err
		}
		r.out.Explain("Explain "+filterString(filter), res)
	}
	return nil
}

// All runs queries, aggregations and indexing in one go.
func (r *Runner) All(ctx context.Context, c Catalog) error {
	if err := r.Queries(ctx, c); err != nil {
		return err
	}
	if err := r.Aggregations(ctx, c); err != nil {
		return err
	}
	return r.Indexes(ctx, c)
}

func (r *Runner) books(ctx context.Context, title string, find func() ([]Book, error)) error {
	books, err := find()
	if err != nil {
		return err
	}
	r.log.DebugContext(ctx, "query finished", slog.String("query", title), logger.Count(int64(len(books))))
	r.out.Books(title, books)
	return nil
}

func filterString(filter bson.D) string {
	b, err := bson.MarshalExtJSON(filter, false, false)
	if err != nil {
		return fmt.Sprint(filter)
	}
	return string(b)
}
