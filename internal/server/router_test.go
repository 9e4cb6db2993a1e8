package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/eaglebank/banque/internal/command"
	"github.com/eaglebank/banque/internal/config"
	"github.com/eaglebank/banque/internal/handler"
	"github.com/eaglebank/banque/internal/query"
	"github.com/eaglebank/banque/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAccountHandler() *handler.AccountHandler {
	store := repository.NewMemoryAccountRepository()
	reads := repository.NewAccountReadRepository(store, nil)
	return handler.NewAccountHandler(
		command.NewAccountCommandService(store, reads, nil),
		query.NewAccountQueryService(reads),
	)
}

func signedToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "teller-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestHealthAndMetrics(t *testing.T) {
	router := NewRouter(&config.Config{}, newAccountHandler())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health response %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", w.Code)
	}
}

func TestAccountsMountedUnderBasePath(t *testing.T) {
	router := NewRouter(&config.Config{}, newAccountHandler())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/banque/comptes", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected a request id header")
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/comptes", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 outside base path, got %d", w.Code)
	}
}

func TestBearerAuthWhenSecretSet(t *testing.T) {
	router := NewRouter(&config.Config{JWTSecret: "s3cret"}, newAccountHandler())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/banque/comptes", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/banque/comptes", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "s3cret"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health must stay public, got %d", w.Code)
	}
}
