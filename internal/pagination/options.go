package pagination

import (
	"math"
	"strings"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain"
)

const (
	DefaultLimit     = 10
	DefaultPage      = 1
	DefaultSortField = "createdAt"
)

// Filter maps a field name to an exact-match value or an operator value.
// It is handed to the collection untouched; allow-listing happens in the
// HTTP layer before a filter is built.
type Filter map[string]any

// Options are the caller-facing paging options. Zero values take defaults.
type Options struct {
	SortBy   string `json:"sortBy,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Page     int    `json:"page,omitempty"`
	Populate string `json:"populate,omitempty"`
}

// SortField is one parsed sort key.
type SortField struct {
	Field string
	Desc  bool
}

// bounds applies defaults and rejects negative values. A zero value means
// "not provided"; the HTTP layer rejects an explicit zero before it gets here.
func (o Options) bounds() (limit, page int, err error) {
	limit, page = o.Limit, o.Page
	if limit == 0 {
		limit = DefaultLimit
	}
	if page == 0 {
		page = DefaultPage
	}
	if limit < 0 {
		return 0, 0, domain.ValidationError{Field: "limit", Msg: "must be a positive integer"}
	}
	if page < 0 {
		return 0, 0, domain.ValidationError{Field: "page", Msg: "must be a positive integer"}
	}
	if page-1 > math.MaxInt/limit {
		return 0, 0, domain.ValidationError{Field: "page", Msg: "out of range"}
	}
	return limit, page, nil
}

// ParseSort turns "name:desc,createdAt" into sort keys. Directions other
// than "desc" are ascending. Malformed or repeated fields are dropped.
// When nothing usable remains the default createdAt ascending is returned.
func ParseSort(sortBy string) []SortField {
	var out []SortField
	seen := map[string]bool{}
	for _, part := range strings.Split(sortBy, ",") {
		field, dir, _ := strings.Cut(strings.TrimSpace(part), ":")
		field = strings.TrimSpace(field)
		if !validField(field) || seen[field] {
			continue
		}
		seen[field] = true
		out = append(out, SortField{
			Field: field,
			Desc:  strings.EqualFold(strings.TrimSpace(dir), "desc"),
		})
	}
	if len(out) == 0 {
		return []SortField{{Field: DefaultSortField}}
	}
	return out
}

// ParsePopulate splits a comma separated relation list, dropping blanks and
// duplicates while keeping the requested order.
func ParsePopulate(populate string) []string {
	var out []string
	seen := map[string]bool{}
	for _, name := range strings.Split(populate, ",") {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func validField(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && (r == '.' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return !strings.HasSuffix(s, ".")
}
