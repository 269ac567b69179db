package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BindJSONOrError ensures body is present and parsable, answering 400 when
// it is not.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		respondError(c, http.StatusBadRequest, "validation_error", "request body is required", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			respondError(c, http.StatusBadRequest, "validation_error", "request body is required", nil)
			return false
		}
		respondError(c, http.StatusBadRequest, "validation_error", "invalid request body", err.Error())
		return false
	}
	return true
}
