package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"devsprint/backend/internal/models"
	"devsprint/backend/internal/utils"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret-for-middleware-testing")
}

func TestAuthRequired_NoHeader(t *testing.T) {
	router := gin.New()
	router.Use(AuthRequired())
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthRequired_InvalidFormat(t *testing.T) {
	router := gin.New()
	router.Use(AuthRequired())
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	testCases := []string{
		"InvalidToken",
		"Basic token123",
		"Bearer",
	}

	for _, authHeader := range testCases {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", authHeader)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected status %d, got %d", authHeader, http.StatusUnauthorized, w.Code)
		}
	}
}

func TestAuthRequired_InvalidToken(t *testing.T) {
	router := gin.New()
	router.Use(AuthRequired())
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.real.token")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthRequired_ValidToken(t *testing.T) {
	token, err := utils.GenerateToken(7, "dev@devsprint.local", models.RoleDev, 1)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	var gotPrincipal struct {
		id   uint
		role string
	}

	router := gin.New()
	router.Use(AuthRequired())
	router.GET("/protected", func(c *gin.Context) {
		p := GetPrincipal(c)
		gotPrincipal.id = p.ID
		gotPrincipal.role = p.Role
		c.JSON(200, gin.H{"email": GetEmail(c)})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if gotPrincipal.id != 7 {
		t.Errorf("principal id = %d, expected 7", gotPrincipal.id)
	}
	if gotPrincipal.role != models.RoleDev {
		t.Errorf("principal role = %q, expected %q", gotPrincipal.role, models.RoleDev)
	}
}

func TestGetPrincipal_Unauthenticated(t *testing.T) {
	router := gin.New()
	var p struct {
		id   uint
		role string
	}
	router.GET("/open", func(c *gin.Context) {
		principal := GetPrincipal(c)
		p.id = principal.ID
		p.role = principal.Role
		c.Status(200)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/open", nil)
	router.ServeHTTP(w, req)

	if p.id != 0 || p.role != "" {
		t.Errorf("unauthenticated principal should be zero, got id=%d role=%q", p.id, p.role)
	}
}
