package handlers

import (
	"net/http"

	"marketplace/internal/http/middleware"
	"marketplace/internal/services"

	"github.com/gin-gonic/gin"
)

func (h Handlers) customers(c *gin.Context) services.CustomerService {
	return services.CustomerService{DB: h.DB, RequestID: middleware.GetRequestID(c)}
}

// GET /api/customers
func (h Handlers) ListCustomers(c *gin.Context) {
	page, err := h.customers(c).List(c.Request.Context(), listParams(c), h.Query)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/customers/:id
func (h Handlers) GetCustomer(c *gin.Context) {
	out, err := h.customers(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/customers
func (h Handlers) CreateCustomer(c *gin.Context) {
	var in services.CustomerFields
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.customers(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PUT /api/customers/:id
func (h Handlers) UpdateCustomer(c *gin.Context) {
	var in services.CustomerFields
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.customers(c).Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/customers/:id
func (h Handlers) DeleteCustomer(c *gin.Context) {
	out, err := h.customers(c).Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
