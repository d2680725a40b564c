package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBook is returned when a create or update payload is incomplete.
var ErrInvalidBook = errors.New("invalid book")

// DefaultGenre is used for grouping books that carry no genre.
const DefaultGenre = "Uncategorized"

// BookID identifies a book record. The backend may send identifiers as JSON
// numbers or strings; both decode to the same canonical value so that 5 and
// "5" refer to the same book.
type BookID string

// UnmarshalJSON accepts a JSON number or string.
func (id *BookID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode book id: %w", err)
		}
		*id = NormalizeBookID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode book id: %w", err)
	}
	*id = NormalizeBookID(n.String())
	return nil
}

// MarshalJSON writes purely numeric identifiers as JSON numbers and
// everything else as JSON strings.
func (id BookID) MarshalJSON() ([]byte, error) {
	if id.IsNumeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// IsNumeric reports whether the identifier is a non-negative decimal integer.
func (id BookID) IsNumeric() bool {
	return allDigits(string(id))
}

func (id BookID) String() string {
	return string(id)
}

// NormalizeBookID trims the raw identifier and strips leading zeros and a
// trailing ".0" from numeric forms, so "05", "5.0" and "5" collapse together.
func NormalizeBookID(raw string) BookID {
	s := strings.TrimSpace(raw)
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if !allDigits(intPart) || (hasFrac && strings.Trim(frac, "0") != "") {
		return BookID(s)
	}
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	return BookID(intPart)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Publisher is either a plain name or a structured name with a location.
// It re-encodes in the shape it was decoded from.
type Publisher struct {
	Name       string
	Location   string
	Structured bool
}

type publisherObject struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

func (p *Publisher) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*p = Publisher{}
		return nil
	case data[0] == '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("decode publisher: %w", err)
		}
		*p = Publisher{Name: name}
		return nil
	case data[0] == '{':
		var obj publisherObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("decode publisher: %w", err)
		}
		*p = Publisher{Name: obj.Name, Location: obj.Location, Structured: true}
		return nil
	default:
		return fmt.Errorf("decode publisher: unsupported value %s", data)
	}
}

func (p Publisher) MarshalJSON() ([]byte, error) {
	if p.Structured || p.Location != "" {
		return json.Marshal(publisherObject{Name: p.Name, Location: p.Location})
	}
	return json.Marshal(p.Name)
}

// String renders "name, location" or just the name.
func (p Publisher) String() string {
	if p.Location != "" {
		return p.Name + ", " + p.Location
	}
	return p.Name
}

// Book is a record of the remote catalog. The backend owns it; the client
// only keeps transient copies.
type Book struct {
	ID          BookID     `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Genre       string     `json:"genre,omitempty"`
	Year        int        `json:"year,omitempty"`
	Publisher   *Publisher `json:"publisher,omitempty"`
	Available   bool       `json:"available"`
	Description string     `json:"description,omitempty"`
}

// GenreOrDefault returns the genre used for grouping.
func (b Book) GenreOrDefault() string {
	if b.Genre == "" {
		return DefaultGenre
	}
	return b.Genre
}

// PublisherText returns the display form of the publisher.
func (b Book) PublisherText() string {
	if b.Publisher == nil || b.Publisher.Name == "" {
		return "Unknown"
	}
	return b.Publisher.String()
}

// Input converts the record into an update payload.
func (b Book) Input() BookInput {
	return BookInput{
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Year:        b.Year,
		Publisher:   b.Publisher,
		Available:   b.Available,
		Description: b.Description,
	}
}

// BookInput is the body sent on create and update.
type BookInput struct {
	Title       string     `json:"title" binding:"required"`
	Author      string     `json:"author" binding:"required"`
	Genre       string     `json:"genre,omitempty"`
	Year        int        `json:"year,omitempty" binding:"gte=0"`
	Publisher   *Publisher `json:"publisher,omitempty"`
	Available   bool       `json:"available"`
	Description string     `json:"description,omitempty"`
}

// Validate checks the fields the catalog requires.
func (in BookInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidBook)
	case strings.TrimSpace(in.Author) == "":
		return fmt.Errorf("%w: author is required", ErrInvalidBook)
	case in.Year < 0:
		return fmt.Errorf("%w: year must not be negative", ErrInvalidBook)
	}
	return nil
}
