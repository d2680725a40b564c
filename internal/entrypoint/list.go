package entrypoint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/view"
)

// ListOptions select what the list command prints.
type ListOptions struct {
	Search  string
	Genre   string
	Sort    string
	Reading bool
	JSON    bool
}

// List fetches once and prints the visible books.
func List(ctx context.Context, app *App, opts ListOptions, w io.Writer) error {
	lib := app.Library

	if opts.Sort != "" {
		option, err := view.ParseSortOption(opts.Sort)
		if err != nil {
			return err
		}
		lib.SetSort(option)
	}
	if opts.Reading {
		lib.SetTab(view.TabReading)
	}

	if err := lib.Search(ctx, opts.Search); err != nil {
		return err
	}

	if opts.Genre != "" {
		if err := lib.SelectGenre(opts.Genre); err != nil {
			return fmt.Errorf("genre %q: %w", opts.Genre, err)
		}
	}

	snap := lib.Snapshot()
	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap.Visible)
	}
	return writeTable(w, snap.Visible, snap.Bookmarked)
}

func writeTable(w io.Writer, books []entities.Book, bookmarked func(entities.BookID) bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tGENRE\tYEAR\tSTATUS\tREADING")
	for _, b := range books {
		year := "-"
		if b.Year != 0 {
			year = strconv.Itoa(b.Year)
		}
		status := "available"
		if !b.Available {
			status = "checked out"
		}
		reading := ""
		if bookmarked(b.ID) {
			reading = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.Title, b.Author, b.GenreOrDefault(), year, status, reading)
	}
	return tw.Flush()
}
