package middleware

import (
	"net/http"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// RightChecker decides whether a role holds a right.
type RightChecker interface {
	Allowed(role domain.Role, right string) (bool, error)
}

// RequireRights allows the request only when the caller's role holds every
// listed right. Auth must run first.
//
//	r.GET("/meals", RequireRights(enforcer, domain.RightGetMeals), handler)
func RequireRights(checker RightChecker, rights ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := domain.Role(c.GetString(userRoleKey))
		if role == "" {
			abortError(c, http.StatusUnauthorized, "unauthorized", domain.UnauthorizedError{}.Error())
			return
		}

		for _, right := range rights {
			ok, err := checker.Allowed(role, right)
			if err != nil {
				abortError(c, http.StatusInternalServerError, "internal_error", "authorization check failed")
				return
			}
			if !ok {
				abortError(c, http.StatusForbidden, "forbidden", domain.ForbiddenError{Right: right}.Error())
				return
			}
		}
		c.Next()
	}
}
