package handlers

import (
	"net/http"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain/models"
	"github.com/andyriles/meal-ordering-service-backend/internal/http/middleware"
	"github.com/andyriles/meal-ordering-service-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	Svc services.OrderService
}

// POST /v1/orders
func (h OrderHandler) Create(c *gin.Context) {
	var in models.OrderInput
	if !BindJSONOrError(c, &in) {
		return
	}
	o, err := h.Svc.CreateOrder(c.Request.Context(), middleware.Caller(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// GET /v1/orders
func (h OrderHandler) List(c *gin.Context) {
	opts, err := queryOptions(c, true)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	res, err := h.Svc.QueryOrders(c.Request.Context(), pickFilter(c, "name", "owner"), opts)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /v1/orders/:orderId
func (h OrderHandler) Get(c *gin.Context) {
	o, err := h.Svc.GetOrderByID(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// PATCH /v1/orders/:orderId
func (h OrderHandler) Update(c *gin.Context) {
	var p models.OrderPatch
	if !BindJSONOrError(c, &p) {
		return
	}
	o, err := h.Svc.UpdateOrderByID(c.Request.Context(), c.Param("orderId"), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// DELETE /v1/orders/:orderId
func (h OrderHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteOrderByID(c.Request.Context(), c.Param("orderId")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /v1/orders/:orderId/receipt
func (h OrderHandler) Receipt(c *gin.Context) {
	pdf, filename, err := h.Svc.Receipt(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
