package bookstore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedBooks returns the fixed catalogue inserted by the seed command.
// A new slice is returned on every call.
func SeedBooks() []Book {
	return []Book{
		{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Genre: "Classic", PublishedYear: 1925, Price: 10.99, InStock: true, Pages: 218, Publisher: "Scribner"},
		{Title: "1984", Author: "George Orwell", Genre: "Dystopian", PublishedYear: 1949, Price: 8.99, InStock: true, Pages: 328, Publisher: "Secker & Warburg"},
		{Title: "To Kill a Mockingbird", Author: "Harper Lee", Genre: "Classic", PublishedYear: 1960, Price: 12.0, InStock: true, Pages: 281, Publisher: "J.B. Lippincott & Co."},
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", PublishedYear: 1937, Price: 15.0, InStock: true, Pages: 310, Publisher: "George Allen & Unwin"},
		{Title: "Harry Potter and the Sorcerer’s Stone", Author: "J.K. Rowling", Genre: "Fantasy", PublishedYear: 1997, Price: 20.0, InStock: true, Pages: 309, Publisher: "Bloomsbury"},
		{Title: "A Game of Thrones", Author: "George R.R. Martin", Genre: "Fantasy", PublishedYear: 1996, Price: 18.5, InStock: false, Pages: 694, Publisher: "Bantam Books"},
		{Title: "Becoming", Author: "Michelle Obama", Genre: "Biography", PublishedYear: 2018, Price: 25.0, InStock: true, Pages: 448, Publisher: "Crown"},
		{Title: "Educated", Author: "Tara Westover", Genre: "Memoir", PublishedYear: 2018, Price: 17.0, InStock: true, Pages: 334, Publisher: "Random House"},
		{Title: "The Silent Patient", Author: "Alex Michaelides", Genre: "Thriller", PublishedYear: 2019, Price: 14.0, InStock: true, Pages: 336, Publisher: "Celadon Books"},
		{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", PublishedYear: 1965, Price: 19.0, InStock: true, Pages: 412, Publisher: "Chilton Books"},
	}
}

// LoadSeedFile reads a YAML list of books, using the same field names as
// the stored documents:
//
//   - title: Dune
//     author: Frank Herbert
//     published_year: 1965
//     price: 19.0
func LoadSeedFile(path string) ([]Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrSeedFile, err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a YAML list of books. Unknown keys are rejected so a
// typo does not silently produce zero-valued fields.
func ParseSeed(data []byte) ([]Book, error) {
	var books []Book
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&books); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrSeedFile, err)
	}
	if len(books) == 0 {
		return nil, fmt.Errorf("%w: no books found", ErrSeedFile)
	}
	for i, b := range books {
		if b.Title == "" {
			return nil, fmt.Errorf("%w: book #%d has no title", ErrSeedFile, i+1)
		}
	}
	return books, nil
}
