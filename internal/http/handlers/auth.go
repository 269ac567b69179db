package handlers

import (
	"net/http"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain/models"
	"github.com/andyriles/meal-ordering-service-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Svc services.UserService
}

// POST /v1/auth/register
func (h AuthHandler) Register(c *gin.Context) {
	var in models.RegisterInput
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// POST /v1/auth/login
func (h AuthHandler) Login(c *gin.Context) {
	var in models.LoginInput
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
