package bookstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Store runs the bookstore operations against one collection.
type Store struct {
	coll *mongo.Collection
}

// NewStore returns a Store backed by coll.
func NewStore(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

// InsertSeed inserts books in one batch and returns how many were inserted.
// Existing documents are left alone, so repeated calls duplicate data.
func (s *Store) InsertSeed(ctx context.Context, books []Book) (n int, err error) {
	defer observe("insert_many", time.Now(), &err)

	docs := make([]any, len(books))
	for i, b := range books {
		docs[i] = b
	}

	res, err := s.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, errors.Join(ErrInsert, err)
	}
	return len(res.InsertedIDs), nil
}

func (s *Store) FindByGenre(ctx context.Context, genre string) ([]Book, error) {
	return findAll[Book](ctx, s.coll, "find_by_genre", genreFilter(genre))
}

func (s *Store) FindPublishedAfter(ctx context.Context, year int) ([]Book, error) {
	return findAll[Book](ctx, s.coll, "find_published_after", publishedAfterFilter(year))
}

func (s *Store) FindByAuthor(ctx context.Context, author string) ([]Book, error) {
	return findAll[Book](ctx, s.coll, "find_by_author", authorFilter(author))
}

func (s *Store) FindByTitle(ctx context.Context, title string) ([]Book, error) {
	return findAll[Book](ctx, s.coll, "find_by_title", titleFilter(title))
}

func (s *Store) FindInStockPublishedAfter(ctx context.Context, year int) ([]Book, error) {
	return findAll[Book](ctx, s.coll, "find_in_stock_after", inStockPublishedAfterFilter(year))
}

// FindSummaries returns the title, author and price of every book.
func (s *Store) FindSummaries(ctx context.Context) ([]BookSummary, error) {
	return findAll[BookSummary](ctx, s.coll, "find_summaries", bson.D{},
		options.Find().SetProjection(summaryProjection()))
}

// FindSortedByPrice returns every book ordered by price.
func (s *Store) FindSortedByPrice(ctx context.Context, order SortOrder) ([]Book, error) {
	return findAll[Book](ctx, s.coll, "find_sorted_by_price_"+order.String(), bson.D{},
		options.Find().SetSort(bson.D{{Key: "price", Value: int(order)}}))
}

// FindPage returns one page of book summaries ordered by title. Pages are
// numbered from 1.
func (s *Store) FindPage(ctx context.Context, page, size int) ([]BookSummary, error) {
	if page < 1 || size < 1 {
		return nil, ErrInvalidPage
	}
	opts := options.Find().
		SetProjection(summaryProjection()).
		SetSort(bson.D{{Key: "title", Value: 1}}).
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size))
	return findAll[BookSummary](ctx, s.coll, "find_page", bson.D{}, opts)
}

// UpdatePrice sets the price of the first book with the given title.
func (s *Store) UpdatePrice(ctx context.Context, title string, price float64) (_ UpdateResult, err error) {
	defer observe("update_price", time.Now(), &err)

	res, err := s.coll.UpdateOne(ctx, titleFilter(title), setPriceUpdate(price))
	if err != nil {
		return UpdateResult{}, errors.Join(ErrUpdate, err)
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

// DeleteByTitle removes the first book with the given title and returns
// the number of deleted documents.
func (s *Store) DeleteByTitle(ctx context.Context, title string) (_ int64, err error) {
	defer observe("delete_by_title", time.Now(), &err)

	res, err := s.coll.DeleteOne(ctx, titleFilter(title))
	if err != nil {
		return 0, errors.Join(ErrDelete, err)
	}
	return res.DeletedCount, nil
}

// Count returns the number of documents in the collection.
func (s *Store) Count(ctx context.Context) (_ int64, err error) {
	defer observe("count", time.Now(), &err)

	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors.Join(ErrCount, err)
	}
	return n, nil
}

func (s *Store) AveragePriceByGenre(ctx context.Context) ([]GenreStats, error) {
	return aggregate[GenreStats](ctx, s.coll, "avg_price_by_genre", AveragePriceByGenrePipeline())
}

func (s *Store) TopAuthor(ctx context.Context) ([]AuthorCount, error) {
	return aggregate[AuthorCount](ctx, s.coll, "top_author", TopAuthorPipeline())
}

func (s *Store) BooksByDecade(ctx context.Context) ([]DecadeCount, error) {
	return aggregate[DecadeCount](ctx, s.coll, "books_by_decade", BooksByDecadePipeline())
}

// CreateIndexes creates the title and author/published_year indexes and
// returns their names. Creating an index that already exists is a no-op on
// the server.
func (s *Store) CreateIndexes(ctx context.Context) (_ []string, err error) {
	defer observe("create_indexes", time.Now(), &err)

	names, err := s.coll.Indexes().CreateMany(ctx, Indexes())
	if err != nil {
		return nil, errors.Join(ErrCreateIndex, err)
	}
	return names, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, op string, filter bson.D, opts ...options.Lister[options.FindOptions]) (_ []T, err error) {
	defer observe(op, time.Now(), &err)

	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, errors.Join(ErrFind, err)
	}

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Join(ErrFind, err)
	}
	return out, nil
}

func aggregate[T any](ctx context.Context, coll *mongo.Collection, op string, pipeline mongo.Pipeline) (_ []T, err error) {
	defer observe(op, time.Now(), &err)

	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Join(ErrAggregate, err)
	}

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Join(ErrAggregate, err)
	}
	return out, nil
}
