package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"realite-api/core/config"
	"realite-api/core/constants"
	"realite-api/core/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const testSecret = "middleware-test-secret"

func newAuthFixture() (*Middleware, echo.HandlerFunc) {
	mw := New(&config.Config{Auth: config.AuthConfig{JWTSecret: testSecret}})
	handler := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
	return mw, handler
}

func invoke(mw *Middleware, handler echo.HandlerFunc, authorization string) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw.AuthMiddleware()(handler)(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, c
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	mw, handler := newAuthFixture()
	userID := uuid.New()

	token, err := utils.GenerateToken(userID, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	rec, c := invoke(mw, handler, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	claims, ok := c.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok {
		t.Fatal("claims not stored in context")
	}
	if claims.UserID != userID {
		t.Errorf("user id: got %s, want %s", claims.UserID, userID)
	}
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	mw, handler := newAuthFixture()

	rec, _ := invoke(mw, handler, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	mw, handler := newAuthFixture()

	rec, _ := invoke(mw, handler, "Token abc")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	mw, handler := newAuthFixture()

	token, err := utils.GenerateToken(uuid.New(), testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	rec, _ := invoke(mw, handler, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	mw, handler := newAuthFixture()

	token, err := utils.GenerateToken(uuid.New(), "another-secret", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	rec, _ := invoke(mw, handler, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}
