package handlers

import (
	"net/http"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain/models"
	"github.com/andyriles/meal-ordering-service-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type MealHandler struct {
	Svc services.MealService
}

// POST /v1/meals
func (h MealHandler) Create(c *gin.Context) {
	var in models.MealInput
	if !BindJSONOrError(c, &in) {
		return
	}
	m, err := h.Svc.AddMeal(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// GET /v1/meals
func (h MealHandler) List(c *gin.Context) {
	opts, err := queryOptions(c, false)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	res, err := h.Svc.QueryMeals(c.Request.Context(), pickFilter(c, "name"), opts)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /v1/meals/:mealId
func (h MealHandler) Get(c *gin.Context) {
	m, err := h.Svc.GetMealByID(c.Request.Context(), c.Param("mealId"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// PATCH /v1/meals/:mealId
func (h MealHandler) Update(c *gin.Context) {
	var p models.MealPatch
	if !BindJSONOrError(c, &p) {
		return
	}
	m, err := h.Svc.UpdateMealByID(c.Request.Context(), c.Param("mealId"), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// DELETE /v1/meals/:mealId
func (h MealHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteMealByID(c.Request.Context(), c.Param("mealId")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
