package api

import (
	"database/sql"
	"log"
	stdhttp "net/http"

	intconfig "marketplace/internal/config"
	"marketplace/internal/http/handlers"
	"marketplace/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, db *sql.DB) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.CORSOrigins),
		middleware.Timeout(env.RequestTimeout),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	h := handlers.Handlers{DB: db, Query: env.Query}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		customers := api.Group("/customers")
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
		customers.POST("", h.CreateCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)

		businesses := api.Group("/businesses")
		businesses.GET("", h.ListBusinesses)
		businesses.GET("/:id", h.GetBusiness)
		businesses.POST("", h.CreateBusiness)
		businesses.PUT("/:id", h.UpdateBusiness)
		businesses.DELETE("/:id", h.DeleteBusiness)

		categories := api.Group("/categories")
		categories.GET("", h.ListCategories)
		categories.GET("/:id", h.GetCategory)
		categories.POST("", h.CreateCategory)
		categories.PUT("/:id", h.UpdateCategory)
		categories.DELETE("/:id", h.DeleteCategory)
		categories.PUT("/:id/businesses/:businessId", h.LinkCategoryBusiness)
		categories.DELETE("/:id/businesses/:businessId", h.UnlinkCategoryBusiness)

		orders := api.Group("/orders")
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("", h.CreateOrder)
		orders.PUT("/:id", h.UpdateOrder)
		orders.DELETE("/:id", h.DeleteOrder)
		orders.GET("/:id/job-sheet", h.GetOrderJobSheet)
	}

	handlers.SetRouter(r)
	return r
}
