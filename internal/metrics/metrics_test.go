package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(Middleware())
	r.GET("/v1/meals/:mealId", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/meals/abc", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/meals/:mealId", "200"))
	if got < 1 {
		t.Fatalf("expected http_requests_total >= 1, got %f", got)
	}
}

func TestMiddlewareUnknownRoute(t *testing.T) {
	r := gin.New()
	r.Use(Middleware())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nowhere/1", http.NoBody))

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unknown", "404"))
	if got < 1 {
		t.Fatalf("unmatched routes should be labelled unknown, got %f", got)
	}
}

func TestObservePaginate(t *testing.T) {
	ObservePaginate("meals", "ok", 5*time.Millisecond)
	if testutil.CollectAndCount(paginateDuration) == 0 {
		t.Fatalf("expected paginate_duration_seconds observations")
	}
}
