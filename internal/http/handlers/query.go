package handlers

import (
	"strconv"
	"strings"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain"
	"github.com/andyriles/meal-ordering-service-backend/internal/pagination"

	"github.com/gin-gonic/gin"
)

// pickFilter copies the allowed query keys into a filter. Other keys are
// ignored; empty values are treated as absent.
func pickFilter(c *gin.Context, keys ...string) pagination.Filter {
	f := pagination.Filter{}
	for _, k := range keys {
		if v, ok := c.GetQuery(k); ok && strings.TrimSpace(v) != "" {
			f[k] = strings.TrimSpace(v)
		}
	}
	return f
}

// queryOptions reads sortBy, limit, page and, when allowed, populate.
func queryOptions(c *gin.Context, withPopulate bool) (pagination.Options, error) {
	opts := pagination.Options{SortBy: strings.TrimSpace(c.Query("sortBy"))}

	var err error
	if opts.Limit, err = positiveInt(c, "limit"); err != nil {
		return pagination.Options{}, err
	}
	if opts.Page, err = positiveInt(c, "page"); err != nil {
		return pagination.Options{}, err
	}
	if withPopulate {
		opts.Populate = strings.TrimSpace(c.Query("populate"))
	}
	return opts, nil
}

// positiveInt returns 0 when the key is absent so the engine default applies.
func positiveInt(c *gin.Context, key string) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, domain.ValidationError{Field: key, Msg: "must be a positive integer", Err: err}
	}
	return n, nil
}
