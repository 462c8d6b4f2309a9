package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	intconfig "marketplace/internal/config"
	"marketplace/internal/query"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewRouterRegistersResourceRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	env := intconfig.Env{
		CORSOrigins:    []string{"http://localhost:3000"},
		RequestTimeout: time.Second,
		Query:          query.StandardDefaults(),
	}
	r := NewRouter(env, nil)

	have := map[string]bool{}
	for _, rt := range r.Routes() {
		have[rt.Method+" "+rt.Path] = true
	}
	for _, want := range []string{
		"GET /api/customers",
		"DELETE /api/businesses/:id",
		"PUT /api/categories/:id/businesses/:businessId",
		"DELETE /api/categories/:id/businesses/:businessId",
		"PUT /api/orders/:id",
		"GET /api/orders/:id/job-sheet",
		"GET /api/routes",
	} {
		assert.True(t, have[want], "missing route %s", want)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
