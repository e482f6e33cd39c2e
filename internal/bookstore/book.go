package bookstore

import (
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Book is a document of the books collection.
type Book struct {
	ID            bson.ObjectID `bson:"_id,omitempty" yaml:"-"`
	Title         string        `bson:"title" yaml:"title"`
	Author        string        `bson:"author" yaml:"author"`
	Genre         string        `bson:"genre" yaml:"genre"`
	PublishedYear int           `bson:"published_year" yaml:"published_year"`
	Price         float64       `bson:"price" yaml:"price"`
	InStock       bool          `bson:"in_stock" yaml:"in_stock"`
	Pages         int           `bson:"pages" yaml:"pages"`
	Publisher     string        `bson:"publisher" yaml:"publisher"`
}

// BookSummary is the {title, author, price} projection with _id suppressed.
type BookSummary struct {
	Title  string  `bson:"title"`
	Author string  `bson:"author"`
	Price  float64 `bson:"price"`
}

// GenreStats is a row of the average-price-by-genre pipeline.
type GenreStats struct {
	Genre        string  `bson:"_id"`
	AveragePrice float64 `bson:"averagePrice"`
	TotalBooks   int     `bson:"totalBooks"`
}

// AuthorCount is a row of the top-author pipeline.
type AuthorCount struct {
	Author     string `bson:"_id"`
	TotalBooks int    `bson:"totalBooks"`
}

// DecadeCount is a row of the books-by-decade pipeline.
type DecadeCount struct {
	Decade int `bson:"decade"`
	Count  int `bson:"count"`
}

// Label renders the decade the way readers say it, e.g. "1960s".
func (d DecadeCount) Label() string {
	return strconv.Itoa(d.Decade) + "s"
}

// Decade maps a year to the first year of its decade using the same
// arithmetic the server evaluates: floor(year/10)*10.
func Decade(year int) int {
	return int(math.Floor(float64(year)/10)) * 10
}

// UpdateResult reports the outcome of a single-document update.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// SortOrder is a MongoDB sort direction.
type SortOrder int

const (
	Ascending  SortOrder = 1
	Descending SortOrder = -1
)

func (o SortOrder) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}
