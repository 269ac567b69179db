package handlers

import (
	"net/http"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain/models"
	"github.com/andyriles/meal-ordering-service-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	Svc services.MenuService
}

// POST /v1/menu
func (h MenuHandler) Create(c *gin.Context) {
	var in models.MenuInput
	if !BindJSONOrError(c, &in) {
		return
	}
	m, err := h.Svc.CreateMenu(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// GET /v1/menu
func (h MenuHandler) List(c *gin.Context) {
	opts, err := queryOptions(c, true)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	res, err := h.Svc.QueryMenu(c.Request.Context(), pickFilter(c, "name", "price"), opts)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /v1/menu/:menuId
func (h MenuHandler) Get(c *gin.Context) {
	m, err := h.Svc.GetMenuByID(c.Request.Context(), c.Param("menuId"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// PATCH /v1/menu/:menuId
func (h MenuHandler) Update(c *gin.Context) {
	var p models.MenuPatch
	if !BindJSONOrError(c, &p) {
		return
	}
	m, err := h.Svc.UpdateMenuByID(c.Request.Context(), c.Param("menuId"), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// DELETE /v1/menu/:menuId
func (h MenuHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteMenuByID(c.Request.Context(), c.Param("menuId")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
