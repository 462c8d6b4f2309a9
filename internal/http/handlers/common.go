package handlers

import (
	"database/sql"
	"io"
	"net/http"

	"marketplace/internal/query"

	"github.com/gin-gonic/gin"
)

// Handlers serves the REST API. DB may be nil, in which case services use the
// shared connection.
type Handlers struct {
	DB    *sql.DB
	Query query.Defaults
}

// listParams reads the search and paging parameters of a list request.
func listParams(c *gin.Context) query.Params {
	return query.Params{
		SearchField:   c.Query("searchField"),
		SearchValue:   c.Query("searchValue"),
		PageRequested: c.Query("pageRequested"),
		PageSize:      c.Query("pageSize"),
		SortField:     c.Query("sortType"),
		SortDirection: c.Query("sortValue"),
	}
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "request body is empty")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid payload: "+err.Error())
		return false
	}
	return true
}

// rawBody reads the whole request body for handlers that need key presence.
func rawBody(c *gin.Context) ([]byte, bool) {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "validation_error", "request body is empty")
		return nil, false
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "cannot read request body")
		return nil, false
	}
	if len(raw) == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "request body is empty")
		return nil, false
	}
	return raw, true
}
