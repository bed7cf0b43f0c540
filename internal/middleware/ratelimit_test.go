package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"devsprint/backend/internal/config"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limitedRouter(cfg config.RateLimitConfig) *gin.Engine {
	router := gin.New()
	router.Use(RateLimit(cfg))
	router.POST("/auth/login", func(c *gin.Context) {
		c.JSON(200, gin.H{"token": "stub"})
	})
	return router
}

func attempt(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/login", nil)
	req.RemoteAddr = ip + ":40000"
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit_WithinBurst(t *testing.T) {
	router := limitedRouter(config.RateLimitConfig{RPS: 5, Burst: 3})

	for i := 0; i < 3; i++ {
		if w := attempt(router, "203.0.113.1"); w.Code != http.StatusOK {
			t.Fatalf("attempt %d: status = %d, expected 200", i+1, w.Code)
		}
	}
}

func TestRateLimit_RejectsAfterBurst(t *testing.T) {
	router := limitedRouter(config.RateLimitConfig{RPS: 0.001, Burst: 2})

	attempt(router, "203.0.113.2")
	attempt(router, "203.0.113.2")
	w := attempt(router, "203.0.113.2")

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, expected 429 after burst", w.Code)
	}

	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Code != http.StatusTooManyRequests {
		t.Errorf("body code = %d, expected 429", body.Code)
	}
	if body.Message == "" {
		t.Error("expected a message in the throttled response")
	}
}

func TestRateLimit_BudgetsArePerClient(t *testing.T) {
	router := limitedRouter(config.RateLimitConfig{RPS: 0.001, Burst: 1})

	if w := attempt(router, "203.0.113.3"); w.Code != http.StatusOK {
		t.Fatalf("first client: status = %d, expected 200", w.Code)
	}
	if w := attempt(router, "203.0.113.3"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("first client second attempt: status = %d, expected 429", w.Code)
	}

	// A different client still has its own untouched budget.
	if w := attempt(router, "203.0.113.4"); w.Code != http.StatusOK {
		t.Fatalf("second client: status = %d, expected 200", w.Code)
	}
}
