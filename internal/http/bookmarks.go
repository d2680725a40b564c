package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// ReadingListController serves the reading list endpoints.
type ReadingListController struct {
	list ReadingList
}

// NewReadingListController creates a ReadingListController over list.
func NewReadingListController(list ReadingList) *ReadingListController {
	return &ReadingListController{list: list}
}

// ToggleBookmark adds a book to the reading list or removes it.
// POST /books/:id/reading-list
func (rc *ReadingListController) ToggleBookmark(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	bookmarked := rc.list.ToggleBookmark(c.Request.Context(), id)

	c.JSON(http.StatusOK, gin.H{
		"id":          id,
		"bookmarked":  bookmarked,
		"readingList": rc.list.Snapshot().ReadingList,
	})
}

// GetReadingList returns the bookmarked IDs and the loaded books among them.
// GET /reading-list
func (rc *ReadingListController) GetReadingList(c *gin.Context) {
	snap := rc.list.Snapshot()

	books := make([]entities.Book, 0, len(snap.ReadingList))
	for _, b := range snap.Books {
		if snap.Bookmarked(b.ID) {
			books = append(books, b)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"readingList": snap.ReadingList,
		"books":       books,
		"count":       len(snap.ReadingList),
	})
}
