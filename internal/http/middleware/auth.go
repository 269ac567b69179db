package middleware

import (
	"net/http"
	"strings"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "userID"
	userRoleKey = "userRole"
)

// TokenParser verifies a bearer token and returns the caller it names.
type TokenParser interface {
	Parse(token string) (domain.RequestContext, error)
}

// Auth requires a valid bearer token and stores the caller on the context.
func Auth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			abortError(c, http.StatusUnauthorized, "unauthorized", domain.UnauthorizedError{}.Error())
			return
		}

		caller, err := tokens.Parse(raw)
		if err != nil {
			abortError(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}

		c.Set(userIDKey, caller.UserID)
		c.Set(userRoleKey, string(caller.Role))
		c.Next()
	}
}

// Caller returns the authenticated caller, or the zero value before Auth ran.
func Caller(c *gin.Context) domain.RequestContext {
	return domain.RequestContext{
		UserID: c.GetString(userIDKey),
		Role:   domain.Role(c.GetString(userRoleKey)),
	}
}
