package handlers

import (
	"net/http"

	"marketplace/internal/http/middleware"
	"marketplace/internal/services"

	"github.com/gin-gonic/gin"
)

func (h Handlers) categories(c *gin.Context) services.CategoryService {
	return services.CategoryService{DB: h.DB, RequestID: middleware.GetRequestID(c)}
}

// GET /api/categories
func (h Handlers) ListCategories(c *gin.Context) {
	page, err := h.categories(c).List(c.Request.Context(), listParams(c), h.Query)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/categories/:id
func (h Handlers) GetCategory(c *gin.Context) {
	out, err := h.categories(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/categories
func (h Handlers) CreateCategory(c *gin.Context) {
	var in services.CategoryFields
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.categories(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PUT /api/categories/:id
func (h Handlers) UpdateCategory(c *gin.Context) {
	var in services.CategoryFields
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.categories(c).Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/categories/:id
func (h Handlers) DeleteCategory(c *gin.Context) {
	out, err := h.categories(c).Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PUT /api/categories/:id/businesses/:businessId
func (h Handlers) LinkCategoryBusiness(c *gin.Context) {
	out, err := h.categories(c).LinkBusiness(c.Request.Context(), c.Param("id"), c.Param("businessId"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/categories/:id/businesses/:businessId
func (h Handlers) UnlinkCategoryBusiness(c *gin.Context) {
	out, err := h.categories(c).UnlinkBusiness(c.Request.Context(), c.Param("id"), c.Param("businessId"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
