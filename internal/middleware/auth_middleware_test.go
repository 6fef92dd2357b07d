package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-pos-store/internal/auth"

	"github.com/gin-gonic/gin"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api", AuthMiddleware())
	api.GET("/whoami", func(c *gin.Context) {
		claims := SessionClaims(c)
		c.JSON(http.StatusOK, gin.H{"cashier": claims.CashierName})
	})
	api.GET("/admin", RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func get(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	auth.Init("test-secret", 3600)
	r := testRouter()

	token, err := auth.GenerateToken(auth.RoleCashier, 1, 7, "Till One")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if w := get(r, "/api/whoami", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no header: status = %d, want 401", w.Code)
	}
	if w := get(r, "/api/whoami", token); w.Code != http.StatusUnauthorized {
		t.Errorf("missing Bearer prefix: status = %d, want 401", w.Code)
	}
	if w := get(r, "/api/whoami", "Bearer garbage"); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", w.Code)
	}

	w := get(r, "/api/whoami", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d, want 200", w.Code)
	}
	if body := w.Body.String(); body != `{"cashier":"Till One"}` {
		t.Errorf("body = %s", body)
	}
}

func TestRequireRole(t *testing.T) {
	auth.Init("test-secret", 3600)
	r := testRouter()

	cashier, err := auth.GenerateToken(auth.RoleCashier, 1, 7, "Till One")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	admin, err := auth.GenerateToken(auth.RoleAdmin, 0, 0, "")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if w := get(r, "/api/admin", "Bearer "+cashier); w.Code != http.StatusForbidden {
		t.Errorf("cashier on admin route: status = %d, want 403", w.Code)
	}
	if w := get(r, "/api/admin", "Bearer "+admin); w.Code != http.StatusOK {
		t.Errorf("admin on admin route: status = %d, want 200", w.Code)
	}
}
