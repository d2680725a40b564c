package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	health := NewHealthController(cfg.Database, cfg.Library, cfg.ReadingListBackend, cfg.Version)
	viewController := NewViewController(cfg.Library, cfg.Search, logger)
	booksController := NewBooksController(cfg.Library, logger)
	readingListController := NewReadingListController(cfg.Library)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// View state and intents
	router.GET("/view", viewController.GetView)
	router.POST("/view/search", viewController.Search)
	router.POST("/view/input", viewController.Input)
	router.POST("/view/refresh", viewController.Refresh)
	router.PUT("/view/genre", viewController.SetGenre)
	router.PUT("/view/sort", viewController.SetSort)
	router.PUT("/view/tab", viewController.SetTab)

	// Detail view and edit target
	router.PUT("/selection/:id", viewController.Select)
	router.DELETE("/selection", viewController.CloseDetail)
	router.PUT("/editing/:id", viewController.Edit)
	router.DELETE("/editing", viewController.CancelEdit)

	// Catalog mutations
	router.POST("/books", booksController.CreateBook)
	router.PUT("/books/:id", booksController.UpdateBook)
	router.DELETE("/books/:id", booksController.DeleteBook)
	router.PATCH("/books/:id/toggle-availability", booksController.ToggleAvailability)

	// Reading list
	router.POST("/books/:id/reading-list", readingListController.ToggleBookmark)
	router.GET("/reading-list", readingListController.GetReadingList)

	return router
}
