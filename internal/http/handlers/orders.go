package handlers

import (
	"net/http"

	"marketplace/internal/http/middleware"
	"marketplace/internal/services"

	"github.com/gin-gonic/gin"
)

func (h Handlers) orders(c *gin.Context) services.OrderService {
	return services.OrderService{DB: h.DB, RequestID: middleware.GetRequestID(c)}
}

// GET /api/orders
func (h Handlers) ListOrders(c *gin.Context) {
	page, err := h.orders(c).List(c.Request.Context(), listParams(c), h.Query)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/orders/:id
func (h Handlers) GetOrder(c *gin.Context) {
	out, err := h.orders(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/orders
func (h Handlers) CreateOrder(c *gin.Context) {
	raw, ok := rawBody(c)
	if !ok {
		return
	}
	in, err := services.DecodeOrderFields(raw)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out, err := h.orders(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PUT /api/orders/:id
// Keys missing from the body are left unchanged; "business": null detaches the business.
func (h Handlers) UpdateOrder(c *gin.Context) {
	raw, ok := rawBody(c)
	if !ok {
		return
	}
	patch, err := services.ParseOrderPatch(raw)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out, err := h.orders(c).Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/orders/:id
func (h Handlers) DeleteOrder(c *gin.Context) {
	out, err := h.orders(c).Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/orders/:id/job-sheet
func (h Handlers) GetOrderJobSheet(c *gin.Context) {
	svc := services.JobSheetService{DB: h.DB, RequestID: middleware.GetRequestID(c)}
	pdfBytes, filename, err := svc.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
