package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// BooksController serves the book CRUD endpoints.
type BooksController struct {
	books  BookManager
	logger *zap.Logger
}

// NewBooksController creates a BooksController backed by books.
func NewBooksController(books BookManager, logger *zap.Logger) *BooksController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BooksController{
		books:  books,
		logger: logger,
	}
}

// CreateBook adds a book to the catalog.
// POST /books
func (controller *BooksController) CreateBook(c *gin.Context) {
	var input entities.BookInput
	if !bindJSON(c, &input) {
		return
	}

	if err := controller.books.Create(c.Request.Context(), input); err != nil {
		respondFailure(c, controller.logger, controller.books, err, "create book")
		return
	}
	respondSnapshot(c, http.StatusCreated, controller.books)
}

// UpdateBook replaces a book.
// PUT /books/:id
func (controller *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input entities.BookInput
	if !bindJSON(c, &input) {
		return
	}

	if err := controller.books.Update(c.Request.Context(), id, input); err != nil {
		respondFailure(c, controller.logger, controller.books, err, "update book")
		return
	}
	respondSnapshot(c, http.StatusOK, controller.books)
}

// DeleteBook removes a book. The request must carry confirm=true.
// DELETE /books/:id?confirm=true
func (controller *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	confirmed := c.Query("confirm") == "true"
	confirm := func(entities.BookID) bool { return confirmed }

	if err := controller.books.Delete(c.Request.Context(), id, confirm); err != nil {
		respondFailure(c, controller.logger, controller.books, err, "delete book")
		return
	}
	respondSnapshot(c, http.StatusOK, controller.books)
}

// ToggleAvailability flips a book's availability.
// PATCH /books/:id/toggle-availability
func (controller *BooksController) ToggleAvailability(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.books.ToggleAvailability(c.Request.Context(), id); err != nil {
		respondFailure(c, controller.logger, controller.books, err, "toggle availability")
		return
	}
	respondSnapshot(c, http.StatusOK, controller.books)
}
