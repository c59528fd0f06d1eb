package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/anisossss/mining-ops/internal/config"
	"github.com/anisossss/mining-ops/internal/repository"
	"github.com/anisossss/mining-ops/internal/service"
	"github.com/anisossss/mining-ops/internal/testutil"
	"github.com/gin-gonic/gin"
)

func setupAuthTest(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)

	cfg := &config.Config{}
	cfg.JWT.Secret = testutil.JWTSecret
	cfg.JWT.Issuer = "mining-ops"
	cfg.JWT.AccessTokenExpire = time.Hour

	authHandler := NewAuthHandler(service.NewAuthService(repos.User, cfg))

	router := testutil.SetupRouter()
	router.POST("/api/v1/auth/register", authHandler.Register)
	router.POST("/api/v1/auth/login", authHandler.Login)
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/auth/me", authHandler.Me)

	return router
}

func TestRegisterAndLogin(t *testing.T) {
	router := setupAuthTest(t)

	w := testutil.DoRequest(router, "POST", "/api/v1/auth/register", map[string]interface{}{
		"email":      "miner@example.com",
		"password":   "s3cret-pass",
		"first_name": "Dana",
		"last_name":  "Ore",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["email"] != "miner@example.com" {
		t.Errorf("Expected registered email, got %v", data["email"])
	}
	if data["role"] != "operator" {
		t.Errorf("Expected default operator role, got %v", data["role"])
	}
	if _, exposed := data["password_hash"]; exposed {
		t.Error("Password hash must not appear in responses")
	}

	w = testutil.DoRequest(router, "POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    "miner@example.com",
		"password": "s3cret-pass",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp = testutil.ParseResponse(w)
	data = resp["data"].(map[string]interface{})
	token := data["token"].(map[string]interface{})
	if token["access_token"] == nil || token["access_token"] == "" {
		t.Error("Expected a non-empty access token")
	}
	if token["token_type"] != "bearer" {
		t.Errorf("Expected bearer token, got %v", token["token_type"])
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router := setupAuthTest(t)

	body := map[string]interface{}{
		"email":    "dup@example.com",
		"password": "s3cret-pass",
	}
	w := testutil.DoRequest(router, "POST", "/api/v1/auth/register", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, "POST", "/api/v1/auth/register", body, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for duplicate email, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	router := setupAuthTest(t)

	testutil.DoRequest(router, "POST", "/api/v1/auth/register", map[string]interface{}{
		"email":    "locked@example.com",
		"password": "right-password",
	}, "")

	w := testutil.DoRequest(router, "POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    "locked@example.com",
		"password": "wrong-password",
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMeRequiresToken(t *testing.T) {
	router := setupAuthTest(t)

	w := testutil.DoRequest(router, "GET", "/api/v1/auth/me", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", w.Code)
	}
}

func TestMeReturnsCurrentUser(t *testing.T) {
	router := setupAuthTest(t)

	w := testutil.DoRequest(router, "POST", "/api/v1/auth/register", map[string]interface{}{
		"email":    "me@example.com",
		"password": "s3cret-pass",
	}, "")
	resp := testutil.ParseResponse(w)
	id := uint(resp["data"].(map[string]interface{})["id"].(float64))

	token := testutil.GenerateTestToken(id, "me@example.com", "operator")
	w = testutil.DoRequest(router, "GET", "/api/v1/auth/me", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp = testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["email"] != "me@example.com" {
		t.Errorf("Expected own account, got %v", data["email"])
	}
}
