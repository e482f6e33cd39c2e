package bookstore

import (
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Filters and pipelines below are handed to the server unchanged.

func genreFilter(genre string) bson.D {
	return bson.D{{Key: "genre", Value: genre}}
}

func authorFilter(author string) bson.D {
	return bson.D{{Key: "author", Value: author}}
}

func titleFilter(title string) bson.D {
	return bson.D{{Key: "title", Value: title}}
}

func publishedAfterFilter(year int) bson.D {
	return bson.D{{Key: "published_year", Value: bson.D{{Key: "$gt", Value: year}}}}
}

func inStockPublishedAfterFilter(year int) bson.D {
	return bson.D{
		{Key: "in_stock", Value: true},
		{Key: "published_year", Value: bson.D{{Key: "$gt", Value: year}}},
	}
}

func setPriceUpdate(price float64) bson.D {
	return bson.D{{Key: "$set", Value: bson.D{{Key: "price", Value: price}}}}
}

// summaryProjection keeps title, author and price and suppresses _id.
func summaryProjection() bson.D {
	return bson.D{
		{Key: "title", Value: 1},
		{Key: "author", Value: 1},
		{Key: "price", Value: 1},
		{Key: "_id", Value: 0},
	}
}

// AveragePriceByGenrePipeline averages price and counts books per genre,
// most expensive genre first.
func AveragePriceByGenrePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$genre"},
			{Key: "averagePrice", Value: bson.D{{Key: "$avg", Value: "$price"}}},
			{Key: "totalBooks", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "averagePrice", Value: -1}}}},
	}
}

// TopAuthorPipeline returns the single author with the most books.
func TopAuthorPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$author"},
			{Key: "totalBooks", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalBooks", Value: -1}}}},
		{{Key: "$limit", Value: 1}},
	}
}

// BooksByDecadePipeline counts books per publication decade, oldest first.
// The decade is floor(published_year/10)*10.
func BooksByDecadePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$floor", Value: bson.D{
				{Key: "$divide", Value: bson.A{"$published_year", 10}},
			}}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "decade", Value: bson.D{{Key: "$toInt", Value: bson.D{
				{Key: "$multiply", Value: bson.A{"$_id", 10}},
			}}}},
			{Key: "count", Value: 1},
			{Key: "_id", Value: 0},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "decade", Value: 1}}}},
	}
}

// Indexes returns the index models created by the index command: title
// ascending, and author ascending with published_year descending.
func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}, {Key: "published_year", Value: -1}}},
	}
}
