package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain"
	"github.com/andyriles/meal-ordering-service-backend/internal/pagination"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, target, http.NoBody)
	return c, rr
}

func TestRespondDomainError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ValidationError{Field: "limit", Msg: "must be a positive integer"}, http.StatusBadRequest, "validation_error"},
		{domain.UnauthorizedError{}, http.StatusUnauthorized, "unauthorized"},
		{domain.ForbiddenError{Right: "getUsers"}, http.StatusForbidden, "forbidden"},
		{domain.NotFoundError{Resource: "meal"}, http.StatusNotFound, "not_found"},
		{domain.ConflictError{Resource: "user", Msg: "email already taken"}, http.StatusConflict, "conflict"},
		{domain.UnavailableError{Resource: "meals", Err: errors.New("conn refused")}, http.StatusServiceUnavailable, "unavailable"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		c, rr := testContext("/")
		RespondDomainError(c, tc.err)
		if rr.Code != tc.status {
			t.Fatalf("%T: expected %d, got %d", tc.err, tc.status, rr.Code)
		}
		var body ErrorResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Code != tc.code || body.Message == "" {
			t.Fatalf("%T: unexpected body %+v", tc.err, body)
		}
	}
}

func TestRespondDomainErrorHidesCause(t *testing.T) {
	c, rr := testContext("/")
	RespondDomainError(c, domain.UnavailableError{Resource: "meals", Err: errors.New("dial tcp 10.0.0.5:3306")})

	var body ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "service temporarily unavailable" {
		t.Fatalf("driver detail leaked: %q", body.Error)
	}
}

func TestQueryOptions(t *testing.T) {
	c, _ := testContext("/?sortBy=name:desc&limit=5&page=3&populate=meals")
	opts, err := queryOptions(c, true)
	if err != nil {
		t.Fatalf("queryOptions error: %v", err)
	}
	want := pagination.Options{SortBy: "name:desc", Limit: 5, Page: 3, Populate: "meals"}
	if opts != want {
		t.Fatalf("opts = %+v, want %+v", opts, want)
	}

	c, _ = testContext("/?populate=meals")
	if opts, _ := queryOptions(c, false); opts.Populate != "" {
		t.Fatalf("populate should be ignored when not allowed")
	}

	c, _ = testContext("/?limit=")
	if opts, err := queryOptions(c, false); err != nil || opts.Limit != 0 {
		t.Fatalf("empty limit should mean default, got %+v, %v", opts, err)
	}

	c, _ = testContext("/?limit=9223372036854775807")
	if opts, err := queryOptions(c, false); err != nil || opts.Limit != math.MaxInt {
		t.Fatalf("max limit should be accepted, got %+v, %v", opts, err)
	}

	for _, q := range []string{"/?limit=0", "/?limit=-2", "/?page=x", "/?limit=9223372036854775808"} {
		c, _ = testContext(q)
		if _, err := queryOptions(c, false); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", q, err)
		}
	}
}

func TestPickFilter(t *testing.T) {
	c, _ := testContext("/?name=Rice&owner=&price=10&sortBy=name")
	f := pickFilter(c, "name", "owner")
	if len(f) != 1 || f["name"] != "Rice" {
		t.Fatalf("filter = %v", f)
	}
}
