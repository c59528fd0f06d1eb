package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "middleware-test-secret"

func signToken(t *testing.T, secret string, role string, expiresAt time.Time) string {
	t.Helper()
	claims := JWTClaims{
		UserID: 7,
		Email:  "worker@example.com",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func protectedRouter(roleGate string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", JWTAuth(testSecret))
	if roleGate != "" {
		group.Use(RequireRole(roleGate))
	}
	group.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetUint("user_id"),
			"role":    c.GetString("user_role"),
		})
	})
	return r
}

func do(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMissingToken(t *testing.T) {
	r := protectedRouter("")
	if w := do(r, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", w.Code)
	}
}

func TestJWTAuthValidToken(t *testing.T) {
	r := protectedRouter("")
	token := signToken(t, testSecret, "operator", time.Now().Add(time.Hour))
	if w := do(r, token); w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestJWTAuthExpiredToken(t *testing.T) {
	r := protectedRouter("")
	token := signToken(t, testSecret, "operator", time.Now().Add(-time.Hour))
	if w := do(r, token); w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for expired token, got %d", w.Code)
	}
}

func TestJWTAuthWrongSecret(t *testing.T) {
	r := protectedRouter("")
	token := signToken(t, "some-other-secret", "operator", time.Now().Add(time.Hour))
	if w := do(r, token); w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for bad signature, got %d", w.Code)
	}
}

func TestRequireRoleBlocksLowerRole(t *testing.T) {
	r := protectedRouter("manager")
	token := signToken(t, testSecret, "operator", time.Now().Add(time.Hour))
	if w := do(r, token); w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for operator behind manager gate, got %d", w.Code)
	}
}

func TestRequireRolePassesMatchingRole(t *testing.T) {
	r := protectedRouter("manager")
	token := signToken(t, testSecret, "manager", time.Now().Add(time.Hour))
	if w := do(r, token); w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for manager, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireRoleAdminOverride(t *testing.T) {
	r := protectedRouter("manager")
	token := signToken(t, testSecret, "admin", time.Now().Add(time.Hour))
	if w := do(r, token); w.Code != http.StatusOK {
		t.Fatalf("Expected admin to pass every gate, got %d: %s", w.Code, w.Body.String())
	}
}
