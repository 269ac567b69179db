package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain"
	"github.com/andyriles/meal-ordering-service-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTokens map[string]domain.RequestContext

func (s stubTokens) Parse(raw string) (domain.RequestContext, error) {
	if rc, ok := s[raw]; ok {
		return rc, nil
	}
	return domain.RequestContext{}, domain.UnauthorizedError{Msg: "invalid token"}
}

type stubRights map[domain.Role][]string

func (s stubRights) Allowed(role domain.Role, right string) (bool, error) {
	if role == "broken" {
		return false, errors.New("policy unavailable")
	}
	for _, r := range s[role] {
		if r == right {
			return true, nil
		}
	}
	return false, nil
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return body
}

func TestRequestIDGeneratesAndPropagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, utils.RequestIDFrom(c.Request.Context()))
	})

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	rid := rr.Header().Get("X-Request-ID")
	if rid == "" || rr.Body.String() != rid {
		t.Fatalf("request id header %q should match context id %q", rid, rr.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("X-Request-ID", "client-id")
	if got := serve(r, req).Header().Get("X-Request-ID"); got != "client-id" {
		t.Fatalf("client id not kept, got %q", got)
	}
}

func TestAuth(t *testing.T) {
	tokens := stubTokens{"good": {UserID: "u1", Role: domain.RoleChef}}
	r := gin.New()
	r.Use(RequestID(), Auth(tokens))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, Caller(c))
	})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"ok", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := serve(r, req)
			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, rr.Code, rr.Body.String())
			}
			body := decode(t, rr)
			if tc.status == http.StatusOK {
				if body["userId"] != "u1" || body["role"] != "chef" {
					t.Fatalf("unexpected caller: %v", body)
				}
				return
			}
			if body["code"] != "unauthorized" || body["request_id"] == "" {
				t.Fatalf("unexpected error body: %v", body)
			}
		})
	}
}

func TestRequireRights(t *testing.T) {
	rights := stubRights{domain.RoleUser: {domain.RightGetMeals}}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role := c.GetHeader("X-Role"); role != "" {
			c.Set(userRoleKey, role)
		}
		c.Next()
	})
	r.GET("/meals", RequireRights(rights, domain.RightGetMeals), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/meals", RequireRights(rights, domain.RightManageMeals), func(c *gin.Context) { c.Status(http.StatusCreated) })

	cases := []struct {
		method, role string
		status       int
	}{
		{http.MethodGet, "", http.StatusUnauthorized},
		{http.MethodGet, "user", http.StatusOK},
		{http.MethodPost, "user", http.StatusForbidden},
		{http.MethodGet, "broken", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, "/meals", http.NoBody)
		if tc.role != "" {
			req.Header.Set("X-Role", tc.role)
		}
		if rr := serve(r, req); rr.Code != tc.status {
			t.Fatalf("%s as %q: expected %d, got %d", tc.method, tc.role, tc.status, rr.Code)
		}
	}
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(1, 2))
	r.POST("/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", http.NoBody)
		req.RemoteAddr = "10.0.0.1:1234"
		codes = append(codes, serve(r, req).Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/login", http.NoBody)
	req.RemoteAddr = "10.0.0.2:1234"
	if code := serve(r, req).Code; code != http.StatusOK {
		t.Fatalf("other clients should not be limited, got %d", code)
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(rate.Every(time.Minute), 1, time.Minute)
	rl.now = func() time.Time { return clock }
	rl.lastSweep = clock

	if !rl.getLimiter("10.0.0.1").Allow() {
		t.Fatal("first request should pass")
	}
	clock = clock.Add(30 * time.Second)
	rl.getLimiter("10.0.0.2")
	if n := rl.size(); n != 2 {
		t.Fatalf("expected 2 tracked clients, got %d", n)
	}

	clock = clock.Add(45 * time.Second)
	rl.getLimiter("10.0.0.3")
	if n := rl.size(); n != 2 {
		t.Fatalf("idle client should be evicted, got %d tracked", n)
	}
	if _, ok := rl.limiters["10.0.0.1"]; ok {
		t.Fatal("10.0.0.1 should have been swept")
	}
	if _, ok := rl.limiters["10.0.0.2"]; !ok {
		t.Fatal("10.0.0.2 is still within its window")
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := serve(r, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("Origin", "http://evil.example")
	if rr := serve(r, req); rr.Code != http.StatusForbidden {
		t.Fatalf("unknown origin should be rejected, got %d", rr.Code)
	}
}

func TestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	serve(r, httptest.NewRequest(http.MethodGet, "/ok", http.NoBody))
	serve(r, httptest.NewRequest(http.MethodGet, "/fail", http.NoBody))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(entries))
	}
	if entries[0].Level != zap.InfoLevel || entries[1].Level != zap.ErrorLevel {
		t.Fatalf("unexpected levels: %v, %v", entries[0].Level, entries[1].Level)
	}
	if entries[1].ContextMap()["path"] != "/fail" || entries[1].ContextMap()["request_id"] == "" {
		t.Fatalf("unexpected fields: %v", entries[1].ContextMap())
	}
}
