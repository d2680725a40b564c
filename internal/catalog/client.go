// Package catalog talks to the remote books resource.
//
// Every operation performs exactly one HTTP round trip and reports its outcome
// as an error value; there are no retries. List degrades a malformed payload
// to an empty result instead of failing.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	booksPath = "/api/books"
	userAgent = "Bookshelf/1.0 (https://github.com/mrlokans/bookshelf)"

	// DefaultTimeout bounds a single request when no timeout is configured.
	DefaultTimeout = 10 * time.Second
)

// Client is an HTTP client for the books CRUD API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for degraded responses.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type listResponse struct {
	Books json.RawMessage `json:"books"`
}

// List fetches all books, narrowed by search when it is non-empty.
// A response without a usable "books" array yields an empty slice.
func (c *Client) List(ctx context.Context, search string) ([]entities.Book, error) {
	const op = "list books"

	endpoint := c.baseURL + booksPath
	if search != "" {
		endpoint += "?" + url.Values{"search": {search}}.Encode()
	}

	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		drain(resp.Body)
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode}
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrDecode, err)
	}

	return c.decodeBooks(payload.Books), nil
}

// decodeBooks tolerates a missing or non-array field and skips elements
// that cannot be decoded.
func (c *Client) decodeBooks(raw json.RawMessage) []entities.Book {
	var elements []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &elements) != nil {
		if len(raw) > 0 && string(raw) != "null" {
			c.logger.Warn("catalog response has no books array, treating as empty")
		}
		return []entities.Book{}
	}

	books := make([]entities.Book, 0, len(elements))
	for i, element := range elements {
		var book entities.Book
		if err := json.Unmarshal(element, &book); err != nil {
			c.logger.Warn("skipping malformed book record", zap.Int("index", i), zap.Error(err))
			continue
		}
		books = append(books, book)
	}
	return books
}

// Create adds a book. Only 201 Created counts as success.
func (c *Client) Create(ctx context.Context, input entities.BookInput) error {
	return c.send(ctx, "create book", http.MethodPost, c.baseURL+booksPath, input, func(code int) bool {
		return code == http.StatusCreated
	})
}

// Update replaces the fields of the book with the given ID.
func (c *Client) Update(ctx context.Context, id entities.BookID, input entities.BookInput) error {
	return c.send(ctx, "update book", http.MethodPut, c.bookURL(id), input, isOK)
}

// Remove deletes the book with the given ID.
func (c *Client) Remove(ctx context.Context, id entities.BookID) error {
	return c.send(ctx, "delete book", http.MethodDelete, c.bookURL(id), nil, isOK)
}

// ToggleAvailability flips the available flag of a book on the server.
func (c *Client) ToggleAvailability(ctx context.Context, id entities.BookID) error {
	return c.send(ctx, "toggle availability", http.MethodPatch, c.bookURL(id)+"/toggle-availability", nil, isOK)
}

func (c *Client) bookURL(id entities.BookID) string {
	return c.baseURL + booksPath + "/" + url.PathEscape(id.String())
}

func isOK(code int) bool {
	return code >= 200 && code <= 299
}

func (c *Client) send(ctx context.Context, op, method, endpoint string, body any, success func(int) bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	resp, err := c.do(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if !success(resp.StatusCode) {
		return &StatusError{Op: op, StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return resp, nil
}

// drain consumes a bounded amount of the body so the connection can be reused.
func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 64<<10))
}
