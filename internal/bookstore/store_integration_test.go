//go:build integration

package bookstore_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dmitrymomot/bookstore/internal/bookstore"
	"github.com/dmitrymomot/bookstore/internal/report"
	"github.com/dmitrymomot/bookstore/pkg/mongo"
)

var mongoURI string

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := tcmongo.Run(ctx, "mongo:7",
		testcontainers.WithWaitStrategy(wait.ForLog("Waiting for connections").WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start mongo container: %v\n", err)
		os.Exit(1)
	}

	mongoURI, err = container.ConnectionString(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mongo connection string: %v\n", err)
		_ = container.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

// seededStore connects to a collection private to the test and inserts
// the seed catalogue into it.
func seededStore(t *testing.T) *bookstore.Store {
	t.Helper()
	store := emptyStore(t)

	n, err := store.InsertSeed(context.Background(), bookstore.SeedBooks())
	require.NoError(t, err)
	require.Equal(t, 10, n)
	return store
}

func emptyStore(t *testing.T) *bookstore.Store {
	t.Helper()
	ctx := context.Background()

	sess, err := mongo.Connect(ctx, mongo.Config{
		URI:            mongoURI,
		Database:       "plp_bookstore_test",
		Collection:     strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()),
		ConnectTimeout: 10 * time.Second,
		MaxPoolSize:    5,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sess.Collection().Drop(context.Background())
		require.NoError(t, sess.Close(context.Background()))
	})

	return bookstore.NewStore(sess.Collection())
}

func bookTitles(books []bookstore.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestIntegration_InsertSeed(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), count)

	for _, want := range bookstore.SeedBooks() {
		got, err := store.FindByTitle(ctx, want.Title)
		require.NoError(t, err)
		require.Len(t, got, 1, want.Title)
		assert.False(t, got[0].ID.IsZero(), "server assigns _id")
		got[0].ID = want.ID
		assert.Equal(t, want, got[0])
	}
}

func TestIntegration_InsertSeedTwiceDuplicates(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	_, err := store.InsertSeed(ctx, bookstore.SeedBooks())
	require.NoError(t, err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20), count)
}

func TestIntegration_Filters(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	fantasy, err := store.FindByGenre(ctx, "Fantasy")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"The Hobbit", "Harry Potter and the Sorcerer’s Stone", "A Game of Thrones"}, bookTitles(fantasy))

	after2000, err := store.FindPublishedAfter(ctx, 2000)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Becoming", "Educated", "The Silent Patient"}, bookTitles(after2000))

	orwell, err := store.FindByAuthor(ctx, "George Orwell")
	require.NoError(t, err)
	assert.Equal(t, []string{"1984"}, bookTitles(orwell))

	recent, err := store.FindInStockPublishedAfter(ctx, 2010)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Becoming", "Educated", "The Silent Patient"}, bookTitles(recent))
	for _, b := range recent {
		assert.True(t, b.InStock)
		assert.Greater(t, b.PublishedYear, 2010)
	}

	none, err := store.FindByAuthor(ctx, "Nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestIntegration_Projection(t *testing.T) {
	store := seededStore(t)

	rows, err := store.FindSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 10)
	for _, r := range rows {
		assert.NotEmpty(t, r.Title)
		assert.NotEmpty(t, r.Author)
		assert.Positive(t, r.Price)
	}
}

func TestIntegration_SortByPrice(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	asc, err := store.FindSortedByPrice(ctx, bookstore.Ascending)
	require.NoError(t, err)
	desc, err := store.FindSortedByPrice(ctx, bookstore.Descending)
	require.NoError(t, err)

	require.Len(t, asc, 10)
	assert.Equal(t, "1984", asc[0].Title)
	assert.Equal(t, "Becoming", desc[0].Title)

	reversedDesc := bookTitles(desc)
	for i, j := 0, len(reversedDesc)-1; i < j; i, j = i+1, j-1 {
		reversedDesc[i], reversedDesc[j] = reversedDesc[j], reversedDesc[i]
	}
	assert.Equal(t, bookTitles(asc), reversedDesc)
}

func TestIntegration_Pagination(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	page1, err := store.FindPage(ctx, 1, 5)
	require.NoError(t, err)
	page2, err := store.FindPage(ctx, 2, 5)
	require.NoError(t, err)
	page3, err := store.FindPage(ctx, 3, 5)
	require.NoError(t, err)

	require.Len(t, page1, 5)
	require.Len(t, page2, 5)
	assert.Empty(t, page3)

	seen := map[string]bool{}
	for _, r := range append(page1, page2...) {
		assert.False(t, seen[r.Title], "pages overlap on %q", r.Title)
		seen[r.Title] = true
	}
	for _, b := range bookstore.SeedBooks() {
		assert.True(t, seen[b.Title], "%q missing from pages", b.Title)
	}
	assert.Less(t, page1[4].Title, page2[0].Title)

	_, err = store.FindPage(ctx, 0, 5)
	assert.ErrorIs(t, err, bookstore.ErrInvalidPage)
}

func TestIntegration_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	res, err := store.UpdatePrice(ctx, "1984", 11.99)
	require.NoError(t, err)
	assert.Equal(t, bookstore.UpdateResult{Matched: 1, Modified: 1}, res)

	got, err := store.FindByTitle(ctx, "1984")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 11.99, got[0].Price)

	deleted, err := store.DeleteByTitle(ctx, "Dune")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	gone, err := store.FindByTitle(ctx, "Dune")
	require.NoError(t, err)
	assert.Empty(t, gone)

	deleted, err = store.DeleteByTitle(ctx, "Dune")
	require.NoError(t, err)
	assert.Zero(t, deleted)

	res, err = store.UpdatePrice(ctx, "Dune", 1)
	require.NoError(t, err)
	assert.Zero(t, res.Matched)
}

func TestIntegration_Aggregations(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	genres, err := store.AveragePriceByGenre(ctx)
	require.NoError(t, err)
	require.Len(t, genres, 7)
	assert.Equal(t, "Biography", genres[0].Genre)
	assert.Equal(t, 25.0, genres[0].AveragePrice)
	for i := 1; i < len(genres); i++ {
		assert.GreaterOrEqual(t, genres[i-1].AveragePrice, genres[i].AveragePrice)
	}
	for _, g := range genres {
		if g.Genre == "Fantasy" {
			assert.Equal(t, 3, g.TotalBooks)
			assert.InDelta(t, (15.0+20.0+18.5)/3, g.AveragePrice, 1e-9)
		}
	}

	top, err := store.TopAuthor(ctx)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 1, top[0].TotalBooks)

	decades, err := store.BooksByDecade(ctx)
	require.NoError(t, err)
	assert.Equal(t, []bookstore.DecadeCount{
		{Decade: 1920, Count: 1},
		{Decade: 1930, Count: 1},
		{Decade: 1940, Count: 1},
		{Decade: 1960, Count: 2},
		{Decade: 1990, Count: 2},
		{Decade: 2010, Count: 3},
	}, decades)

	total := 0
	for _, d := range decades {
		total += d.Count
	}
	assert.Equal(t, 10, total)
}

func TestIntegration_IndexesAndExplain(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	before, err := store.Explain(ctx, bookstore.ExplainFilters()[0])
	require.NoError(t, err)
	assert.Equal(t, bookstore.StageCollScan, before.Summary.AccessStage)
	assert.Equal(t, int64(10), before.Summary.DocsExamined)

	names, err := store.CreateIndexes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"title_1", "author_1_published_year_-1"}, names)

	again, err := store.CreateIndexes(ctx)
	require.NoError(t, err, "creating existing indexes is a no-op")
	assert.Equal(t, names, again)

	byTitle, err := store.Explain(ctx, bookstore.ExplainFilters()[0])
	require.NoError(t, err)
	assert.True(t, byTitle.Summary.UsesIndex())
	assert.Equal(t, "title_1", byTitle.Summary.IndexName)
	assert.Equal(t, int64(1), byTitle.Summary.Returned)
	assert.NotEmpty(t, byTitle.Stats)

	byAuthor, err := store.Explain(ctx, bookstore.ExplainFilters()[1])
	require.NoError(t, err)
	assert.Equal(t, "author_1_published_year_-1", byAuthor.Summary.IndexName)
}

func TestIntegration_RunnerAll(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	buf := &bytes.Buffer{}
	require.NoError(t, bookstore.NewRunner(report.New(buf), nil).All(ctx, store))

	out := buf.String()
	assert.Contains(t, out, "== Basic CRUD ==")
	assert.Contains(t, out, "Deleted \"Dune\" (1 document(s))")
	assert.Contains(t, out, "1960s")
	assert.Contains(t, out, "title_1")

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), count)
}
