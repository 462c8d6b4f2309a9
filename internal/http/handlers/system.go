package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	intconfig "marketplace/internal/config"
	intdb "marketplace/internal/db"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func (h Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "marketplace backend is running"})
}

// DBCheck pings the database and reports whether the schema has been migrated.
func (h Handlers) DBCheck(c *gin.Context) {
	db := h.DB
	if db == nil {
		db = intconfig.DB
	}
	if db == nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database is not connected")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database ping failed: "+err.Error())
		return
	}
	tables := gin.H{}
	for _, t := range []string{"customers", "businesses", "categories", "category_businesses", "orders"} {
		tables[t] = intdb.HasTable(ctx, db, t)
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "tables": tables})
}

func (h Handlers) Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "not_ready", "router is not ready")
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
