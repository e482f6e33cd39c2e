package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/bookstore/internal/bookstore"
)

var _ bookstore.Reporter = (*Printer)(nil)

// Printer writes human-readable result tables. Write errors are ignored:
// the output is a console transcript, not data.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Section(title string) {
	fmt.Fprintf(p.w, "\n== %s ==\n", title)
}

func (p *Printer) Status(msg string) {
	fmt.Fprintf(p.w, "* %s\n", msg)
}

func (p *Printer) Books(title string, books []bookstore.Book) {
	p.table(title, len(books), []string{"TITLE", "AUTHOR", "GENRE", "YEAR", "PRICE", "IN STOCK", "PAGES", "PUBLISHER"}, func(row func(...string)) {
		for _, b := range books {
			row(b.Title, b.Author, b.Genre, strconv.Itoa(b.PublishedYear), price(b.Price),
				strconv.FormatBool(b.InStock), strconv.Itoa(b.Pages), b.Publisher)
		}
	})
}

func (p *Printer) Summaries(title string, rows []bookstore.BookSummary) {
	p.table(title, len(rows), []string{"TITLE", "AUTHOR", "PRICE"}, func(row func(...string)) {
		for _, s := range rows {
			row(s.Title, s.Author, price(s.Price))
		}
	})
}

func (p *Printer) GenreStats(title string, rows []bookstore.GenreStats) {
	p.table(title, len(rows), []string{"GENRE", "AVG PRICE", "BOOKS"}, func(row func(...string)) {
		for _, g := range rows {
			row(g.Genre, price(g.AveragePrice), strconv.Itoa(g.TotalBooks))
		}
	})
}

func (p *Printer) AuthorCounts(title string, rows []bookstore.AuthorCount) {
	p.table(title, len(rows), []string{"AUTHOR", "BOOKS"}, func(row func(...string)) {
		for _, a := range rows {
			row(a.Author, strconv.Itoa(a.TotalBooks))
		}
	})
}

func (p *Printer) Decades(title string, rows []bookstore.DecadeCount) {
	p.table(title, len(rows), []string{"DECADE", "BOOKS"}, func(row func(...string)) {
		for _, d := range rows {
			row(d.Label(), strconv.Itoa(d.Count))
		}
	})
}

// Explain prints the plan summary followed by the raw executionStats
// document as relaxed extended JSON.
func (p *Printer) Explain(title string, res bookstore.ExplainResult) {
	s := res.Summary
	fmt.Fprintf(p.w, "\n%s\n", title)

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  winning stage\t%s\n", dash(s.WinningStage))
	fmt.Fprintf(tw, "  access stage\t%s\n", dash(s.AccessStage))
	fmt.Fprintf(tw, "  index\t%s\n", dash(s.IndexName))
	fmt.Fprintf(tw, "  returned\t%d\n", s.Returned)
	fmt.Fprintf(tw, "  keys examined\t%d\n", s.KeysExamined)
	fmt.Fprintf(tw, "  docs examined\t%d\n", s.DocsExamined)
	fmt.Fprintf(tw, "  execution time\t%dms\n", s.ExecutionTimeMillis)
	_ = tw.Flush()

	if len(res.Stats) == 0 {
		return
	}
	js, err := bson.MarshalExtJSONIndent(res.Stats, false, false, "  ", "  ")
	if err != nil {
		fmt.Fprintf(p.w, "  executionStats: %v\n", err)
		return
	}
	fmt.Fprintf(p.w, "  executionStats:\n  %s\n", js)
}

func (p *Printer) table(title string, n int, header []string, body func(row func(...string))) {
	fmt.Fprintf(p.w, "\n%s (%d)\n", title, n)
	if n == 0 {
		fmt.Fprintln(p.w, "  (no documents)")
		return
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	row := func(cols ...string) {
		fmt.Fprintf(tw, "  %s\n", strings.Join(cols, "\t"))
	}
	row(header...)
	body(row)
	_ = tw.Flush()
}

func price(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
