package handlers

import (
	"net/http"

	"marketplace/internal/http/middleware"
	"marketplace/internal/services"

	"github.com/gin-gonic/gin"
)

func (h Handlers) businesses(c *gin.Context) services.BusinessService {
	return services.BusinessService{DB: h.DB, RequestID: middleware.GetRequestID(c)}
}

// GET /api/businesses
func (h Handlers) ListBusinesses(c *gin.Context) {
	page, err := h.businesses(c).List(c.Request.Context(), listParams(c), h.Query)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/businesses/:id
func (h Handlers) GetBusiness(c *gin.Context) {
	out, err := h.businesses(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/businesses
func (h Handlers) CreateBusiness(c *gin.Context) {
	var in services.BusinessFields
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.businesses(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PUT /api/businesses/:id
func (h Handlers) UpdateBusiness(c *gin.Context) {
	var in services.BusinessFields
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.businesses(c).Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/businesses/:id
func (h Handlers) DeleteBusiness(c *gin.Context) {
	out, err := h.businesses(c).Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
