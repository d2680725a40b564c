// Package view derives the visible, ordered book list and the genre
// vocabulary from the canonical record set. Everything here is a pure
// function of its inputs; inputs are never modified.
package view

import (
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// AllGenres is the sentinel genre that disables genre filtering.
const AllGenres = "All Genres"

// SortOption selects the ordering of the visible list.
type SortOption string

const (
	SortTitleAsc     SortOption = "title-asc"
	SortTitleDesc    SortOption = "title-desc"
	SortYearDesc     SortOption = "year-desc"
	SortYearAsc      SortOption = "year-asc"
	SortAvailability SortOption = "availability"
)

// SortOptions lists the options in the order they are offered to users.
var SortOptions = []SortOption{SortTitleAsc, SortTitleDesc, SortYearDesc, SortYearAsc, SortAvailability}

// Label returns a human readable name.
func (o SortOption) Label() string {
	switch o {
	case SortTitleAsc:
		return "Title (A-Z)"
	case SortTitleDesc:
		return "Title (Z-A)"
	case SortYearDesc:
		return "Year (Newest First)"
	case SortYearAsc:
		return "Year (Oldest First)"
	case SortAvailability:
		return "Availability"
	default:
		return string(o)
	}
}

// ParseSortOption validates a sort option name.
func ParseSortOption(s string) (SortOption, error) {
	o := SortOption(s)
	if !slices.Contains(SortOptions, o) {
		return "", fmt.Errorf("unknown sort option %q", s)
	}
	return o, nil
}

// Tab selects between the whole collection and the reading list.
type Tab string

const (
	TabAll     Tab = "all"
	TabReading Tab = "reading"
)

// ParseTab validates a tab name.
func ParseTab(s string) (Tab, error) {
	switch t := Tab(s); t {
	case TabAll, TabReading:
		return t, nil
	default:
		return "", fmt.Errorf("unknown tab %q", s)
	}
}

// Genres returns the genre vocabulary: the sentinel followed by each
// distinct (defaulted) genre in first-seen order. The baseline is used when
// it is non-empty so that the vocabulary does not shrink while searching.
func Genres(baseline, current []entities.Book) []string {
	source := baseline
	if len(source) == 0 {
		source = current
	}

	genres := []string{AllGenres}
	seen := make(map[string]struct{}, len(source))
	for _, b := range source {
		g := b.GenreOrDefault()
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		genres = append(genres, g)
	}
	return genres
}

// Filter keeps books of the given genre (unless it is the sentinel or
// empty) and, on the reading tab, only bookmarked books.
func Filter(books []entities.Book, genre string, tab Tab, isBookmarked func(entities.BookID) bool) []entities.Book {
	out := make([]entities.Book, 0, len(books))
	for _, b := range books {
		if genre != "" && genre != AllGenres && b.GenreOrDefault() != genre {
			continue
		}
		if tab == TabReading && (isBookmarked == nil || !isBookmarked(b.ID)) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Params are the user selections applied by Build.
type Params struct {
	Genre        string
	Tab          Tab
	Sort         SortOption
	IsBookmarked func(entities.BookID) bool
}

// Builder sorts with a locale-aware title collation.
type Builder struct {
	tag language.Tag
}

// NewBuilder creates a builder collating titles for locale (a BCP 47 tag).
// An unparsable locale falls back to English.
func NewBuilder(locale string) *Builder {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Builder{tag: tag}
}

// Build filters and sorts books.
func (b *Builder) Build(books []entities.Book, p Params) []entities.Book {
	return b.Sort(Filter(books, p.Genre, p.Tab, p.IsBookmarked), p.Sort)
}

// Sort returns a stably sorted copy of books. Unknown options keep the
// input order.
func (b *Builder) Sort(books []entities.Book, option SortOption) []entities.Book {
	sorted := slices.Clone(books)
	if sorted == nil {
		sorted = []entities.Book{}
	}

	// Collators keep internal buffers and must not be shared between goroutines.
	col := collate.New(b.tag)
	byTitle := func(x, y entities.Book) int {
		return col.CompareString(x.Title, y.Title)
	}

	var compare func(x, y entities.Book) int
	switch option {
	case SortTitleAsc:
		compare = byTitle
	case SortTitleDesc:
		compare = func(x, y entities.Book) int { return byTitle(y, x) }
	case SortYearDesc:
		compare = func(x, y entities.Book) int { return cmp.Compare(y.Year, x.Year) }
	case SortYearAsc:
		compare = func(x, y entities.Book) int { return cmp.Compare(x.Year, y.Year) }
	case SortAvailability:
		compare = func(x, y entities.Book) int {
			if x.Available != y.Available {
				if x.Available {
					return -1
				}
				return 1
			}
			return byTitle(x, y)
		}
	default:
		return sorted
	}

	slices.SortStableFunc(sorted, compare)
	return sorted
}
