// Package report renders bookstore results as aligned console tables.
// It is the console side of bookstore.Reporter.
package report
