package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/budgeteer/budgeteer-backend/internal/middleware"
	"github.com/budgeteer/budgeteer-backend/internal/service"
	"github.com/budgeteer/budgeteer-backend/internal/testutil"
)

// setupAuthContext injects an authenticated username into the request
// context, simulating what the auth middleware does
func setupAuthContext(c echo.Context, username string) {
	ctx := context.WithValue(c.Request().Context(), middleware.UsernameKey, username)
	c.SetRequest(c.Request().WithContext(ctx))
}

func newAuthHandler() (*AuthHandler, *testutil.MockUserRepository) {
	repo := testutil.NewMockUserRepository()
	authService := service.NewAuthService(repo)
	authMiddleware := middleware.NewAuthMiddleware("test-secret")
	return NewAuthHandler(authService, authMiddleware), repo
}

func TestSignup_Success(t *testing.T) {
	e := echo.New()
	handler, _ := newAuthHandler()

	reqBody := `{"username": "alibaba", "password": "open sesame"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Signup(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Username != "alibaba" {
		t.Errorf("Expected username 'alibaba', got %s", response.Username)
	}
	if response.Token == "" {
		t.Error("Expected a token in the response")
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	e := echo.New()
	handler, _ := newAuthHandler()

	reqBody := `{"username": "alibaba", "password": "open sesame"}`

	for i, expected := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(reqBody))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler.Signup(c); err != nil {
			t.Fatalf("Request %d: Expected no error, got %v", i+1, err)
		}
		if rec.Code != expected {
			t.Errorf("Request %d: Expected status %d, got %d", i+1, expected, rec.Code)
		}
	}
}

func TestSignup_ShortPassword(t *testing.T) {
	e := echo.New()
	handler, _ := newAuthHandler()

	reqBody := `{"username": "alibaba", "password": "short"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Signup(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestLogin_Success(t *testing.T) {
	e := echo.New()
	handler, _ := newAuthHandler()

	// Sign up first
	signupBody := `{"username": "alibaba", "password": "open sesame"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(signupBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := handler.Signup(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	loginBody := `{"username": "alibaba", "password": "open sesame"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Token == "" {
		t.Error("Expected a token in the response")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	e := echo.New()
	handler, _ := newAuthHandler()

	signupBody := `{"username": "alibaba", "password": "open sesame"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(signupBody))
	req.Header.Set("Content-Type", "application/json")
	if err := handler.Signup(e.NewContext(req, httptest.NewRecorder())); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	loginBody := `{"username": "alibaba", "password": "wrong password"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	e := echo.New()
	handler, _ := newAuthHandler()

	loginBody := `{"username": "nobody", "password": "open sesame"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}
