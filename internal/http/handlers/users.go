package handlers

import (
	"net/http"

	"github.com/andyriles/meal-ordering-service-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Svc services.UserService
}

// GET /v1/users
func (h UserHandler) List(c *gin.Context) {
	opts, err := queryOptions(c, false)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	res, err := h.Svc.QueryUsers(c.Request.Context(), pickFilter(c, "name", "role"), opts)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /v1/users/:userId
func (h UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.GetUserByID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
