package bookstore

import "errors"

var (
	ErrInsert      = errors.New("failed to insert books")
	ErrFind        = errors.New("failed to find books")
	ErrUpdate      = errors.New("failed to update book")
	ErrDelete      = errors.New("failed to delete book")
	ErrCount       = errors.New("failed to count books")
	ErrAggregate   = errors.New("failed to run aggregation")
	ErrCreateIndex = errors.New("failed to create index")
	ErrExplain     = errors.New("failed to explain query")
	ErrSeedFile    = errors.New("invalid seed file")
	ErrInvalidPage = errors.New("page and page size must be positive")
)
