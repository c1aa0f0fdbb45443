package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/budgeteer/budgeteer-backend/internal/domain"
	"github.com/budgeteer/budgeteer-backend/internal/middleware"
	"github.com/budgeteer/budgeteer-backend/internal/service"
)

// TagHandler handles tag-related HTTP requests
type TagHandler struct {
	tagService *service.TagService
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// TagResponse represents a tag in API responses
type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GetTags handles GET /api/v1/tags
func (h *TagHandler) GetTags(c echo.Context) error {
	username := middleware.GetUsername(c)
	if username == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	tags, err := h.tagService.GetTags(username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "Unknown user")
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to get tags")
		return NewInternalError(c, "Failed to get tags")
	}

	response := make([]TagResponse, len(tags))
	for i, tag := range tags {
		response[i] = TagResponse{ID: tag.ID.String(), Name: tag.Name}
	}

	return c.JSON(http.StatusOK, response)
}
