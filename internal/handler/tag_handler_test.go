package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/budgeteer/budgeteer-backend/internal/domain"
	"github.com/budgeteer/budgeteer-backend/internal/service"
	"github.com/budgeteer/budgeteer-backend/internal/testutil"
)

func TestGetTags(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockUserRepository()
	user := domain.NewUser("alibaba", "hash")
	for _, name := range []string{"sweets", "impulse"} {
		if err := user.AddTag(domain.NewTag(name)); err != nil {
			t.Fatalf("Failed to seed tag: %v", err)
		}
	}
	repo.AddUser(user)
	handler := NewTagHandler(service.NewTagService(repo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tags", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "alibaba")

	if err := handler.GetTags(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response []TagResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 2 {
		t.Errorf("Expected 2 tags, got %d", len(response))
	}
}

func TestGetTags_MissingAuth(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockUserRepository()
	handler := NewTagHandler(service.NewTagService(repo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tags", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetTags(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}
