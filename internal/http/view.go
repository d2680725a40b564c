package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/library"
	"github.com/mrlokans/bookshelf/internal/view"
)

// ViewController reports search, filter, sort, tab and selection intents.
type ViewController struct {
	state  ViewState
	search SearchInput
	logger *zap.Logger
}

// NewViewController creates a ViewController that drives state and search.
func NewViewController(state ViewState, search SearchInput, logger *zap.Logger) *ViewController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewController{state: state, search: search, logger: logger}
}

type searchRequest struct {
	Term string `json:"term"`
}

type inputRequest struct {
	Value string `json:"value"`
}

type genreRequest struct {
	Genre string `json:"genre"`
}

type sortRequest struct {
	Sort string `json:"sort" binding:"required"`
}

type tabRequest struct {
	Tab string `json:"tab" binding:"required"`
}

// GetView returns the current snapshot.
// GET /view
func (vc *ViewController) GetView(c *gin.Context) {
	respondSnapshot(c, http.StatusOK, vc.state)
}

// Search runs a search right away, dropping any pending debounced input.
// POST /view/search
func (vc *ViewController) Search(c *gin.Context) {
	var req searchRequest
	if !bindJSON(c, &req) {
		return
	}

	vc.search.Submit(req.Term)

	snap := vc.state.Snapshot()
	if snap.Status == library.StatusError {
		respondError(c, http.StatusBadGateway, snap.Error)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Input records a keystroke; the search fires once typing settles.
// POST /view/input
func (vc *ViewController) Input(c *gin.Context) {
	var req inputRequest
	if !bindJSON(c, &req) {
		return
	}

	vc.search.Input(req.Value)
	respondAccepted(c, "search scheduled", gin.H{"value": req.Value})
}

// Refresh re-fetches with the active search term.
// POST /view/refresh
func (vc *ViewController) Refresh(c *gin.Context) {
	if err := vc.state.Refresh(c.Request.Context()); err != nil {
		respondFailure(c, vc.logger, vc.state, err, "refresh")
		return
	}
	respondSnapshot(c, http.StatusOK, vc.state)
}

// SetGenre selects a genre; an empty genre means all genres.
// PUT /view/genre
func (vc *ViewController) SetGenre(c *gin.Context) {
	var req genreRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := vc.state.SelectGenre(req.Genre); err != nil {
		respondFailure(c, vc.logger, vc.state, err, "select genre")
		return
	}
	respondSnapshot(c, http.StatusOK, vc.state)
}

// SetSort changes the ordering.
// PUT /view/sort
func (vc *ViewController) SetSort(c *gin.Context) {
	var req sortRequest
	if !bindJSON(c, &req) {
		return
	}

	option, err := view.ParseSortOption(req.Sort)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	vc.state.SetSort(option)
	respondSnapshot(c, http.StatusOK, vc.state)
}

// SetTab switches between all books and the reading list.
// PUT /view/tab
func (vc *ViewController) SetTab(c *gin.Context) {
	var req tabRequest
	if !bindJSON(c, &req) {
		return
	}

	tab, err := view.ParseTab(req.Tab)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	vc.state.SetTab(tab)
	respondSnapshot(c, http.StatusOK, vc.state)
}

// Select opens the detail view.
// PUT /selection/:id
func (vc *ViewController) Select(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := vc.state.Select(id); err != nil {
		respondFailure(c, vc.logger, vc.state, err, "select")
		return
	}
	respondSnapshot(c, http.StatusOK, vc.state)
}

// CloseDetail closes the detail view.
// DELETE /selection
func (vc *ViewController) CloseDetail(c *gin.Context) {
	vc.state.CloseDetail()
	respondSnapshot(c, http.StatusOK, vc.state)
}

// Edit sets the edit target.
// PUT /editing/:id
func (vc *ViewController) Edit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := vc.state.Edit(id); err != nil {
		respondFailure(c, vc.logger, vc.state, err, "edit")
		return
	}
	respondSnapshot(c, http.StatusOK, vc.state)
}

// CancelEdit clears the edit target.
// DELETE /editing
func (vc *ViewController) CancelEdit(c *gin.Context) {
	vc.state.CancelEdit()
	respondSnapshot(c, http.StatusOK, vc.state)
}
