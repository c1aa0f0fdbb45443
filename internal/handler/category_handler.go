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

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest represents the create/rename category request body
type CategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	SubCategories []CategoryResponse `json:"subCategories,omitempty"`
}

func toCategoryResponse(category *domain.Category) CategoryResponse {
	resp := CategoryResponse{
		ID:   category.ID.String(),
		Name: category.Name,
	}
	for _, sub := range category.SubCategories() {
		resp.SubCategories = append(resp.SubCategories, toCategoryResponse(sub))
	}
	return resp
}

// mapCategoryError maps service errors shared by all category operations;
// it returns false if the error needs operation-specific handling.
func (h *CategoryHandler) mapCategoryError(c echo.Context, err error) (bool, error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return true, NewNotFoundError(c, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		return true, NewConflictError(c, err.Error())
	case errors.Is(err, domain.ErrNameRequired):
		return true, NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return true, NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrUserNotFound):
		return true, NewUnauthorizedError(c, "Unknown user")
	}
	return false, nil
}

// CreateMainCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateMainCategory(c echo.Context) error {
	username := middleware.GetUsername(c)
	if username == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.CreateMainCategory(username, req.Name)
	if err != nil {
		if handled, resp := h.mapCategoryError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to create category")
		return NewInternalError(c, "Failed to create category")
	}

	log.Info().Str("username", username).Str("name", category.Name).Msg("Category created")

	c.Response().Header().Set(echo.HeaderLocation, "/api/v1/categories/"+category.Name)
	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// GetCategories handles GET /api/v1/categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	username := middleware.GetUsername(c)
	if username == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	categories, err := h.categoryService.GetAllCategories(username)
	if err != nil {
		if handled, resp := h.mapCategoryError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to get categories")
		return NewInternalError(c, "Failed to get categories")
	}

	response := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = toCategoryResponse(category)
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateMainCategory handles PUT /api/v1/categories/:main
func (h *CategoryHandler) UpdateMainCategory(c echo.Context) error {
	username := middleware.GetUsername(c)
	if username == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	oldName := c.Param("main")

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.RenameMainCategory(username, oldName, req.Name)
	if err != nil {
		if handled, resp := h.mapCategoryError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Str("username", username).Str("category", oldName).Msg("Failed to rename category")
		return NewInternalError(c, "Failed to rename category")
	}

	log.Info().Str("username", username).Str("old_name", oldName).Str("new_name", category.Name).Msg("Category renamed")
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// DeleteMainCategory handles DELETE /api/v1/categories/:main
func (h *CategoryHandler) DeleteMainCategory(c echo.Context) error {
	username := middleware.GetUsername(c)
	if username == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	name := c.Param("main")

	if err := h.categoryService.RemoveMainCategory(username, name); err != nil {
		if errors.Is(err, domain.ErrCannotRemove) {
			return NewCannotRemoveError(c, err.Error())
		}
		if handled, resp := h.mapCategoryError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Str("username", username).Str("category", name).Msg("Failed to remove category")
		return NewInternalError(c, "Failed to remove category")
	}

	log.Info().Str("username", username).Str("category", name).Msg("Category removed")
	return c.NoContent(http.StatusNoContent)
}

// CreateSubCategory handles POST /api/v1/categories/:main/subcategories
func (h *CategoryHandler) CreateSubCategory(c echo.Context) error {
	username := middleware.GetUsername(c)
	if username == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	mainName := c.Param("main")

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	sub, err := h.categoryService.CreateSubCategory(username, mainName, req.Name)
	if err != nil {
		if handled, resp := h.mapCategoryError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Str("username", username).Str("category", mainName).Msg("Failed to create subcategory")
		return NewInternalError(c, "Failed to create subcategory")
	}

	log.Info().Str("username", username).Str("category", mainName).Str("name", sub.Name).Msg("Subcategory created")

	c.Response().Header().Set(echo.HeaderLocation, "/api/v1/categories/"+mainName+"/subcategories/"+sub.Name)
	return c.JSON(http.StatusCreated, toCategoryResponse(sub))
}

// GetSubCategories handles GET /api/v1/categories/:main/subcategories
func (h *CategoryHandler) GetSubCategories(c echo.Context) error {
	username := middleware.GetUsername(c)
	if username == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	mainName := c.Param("main")

	subs, err := h.categoryService.GetSubCategories(username, mainName)
	if err != nil {
		if handled, resp := h.mapCategoryError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Str("username", username).Str("category", mainName).Msg("Failed to get subcategories")
		return NewInternalError(c, "Failed to get subcategories")
	}

	response := make([]CategoryResponse, len(subs))
	for i, sub := range subs {
		response[i] = toCategoryResponse(sub)
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateSubCategory handles PUT /api/v1/categories/:main/subcategories/:sub
func (h *CategoryHandler) UpdateSubCategory(c echo.Context) error {
	username := middleware.GetUsername(c)
	if username == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	mainName := c.Param("main")
	oldName := c.Param("sub")

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	sub, err := h.categoryService.RenameSubCategory(username, mainName, oldName, req.Name)
	if err != nil {
		if handled, resp := h.mapCategoryError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Str("username", username).Str("category", mainName).Str("subcategory", oldName).Msg("Failed to rename subcategory")
		return NewInternalError(c, "Failed to rename subcategory")
	}

	log.Info().Str("username", username).Str("category", mainName).Str("old_name", oldName).Str("new_name", sub.Name).Msg("Subcategory renamed")
	return c.JSON(http.StatusOK, toCategoryResponse(sub))
}

// DeleteSubCategory handles DELETE /api/v1/categories/:main/subcategories/:sub
func (h *CategoryHandler) DeleteSubCategory(c echo.Context) error {
	username := middleware.GetUsername(c)
	if username == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	mainName := c.Param("main")
	subName := c.Param("sub")

	if err := h.categoryService.RemoveSubCategory(username, mainName, subName); err != nil {
		if errors.Is(err, domain.ErrCannotRemove) {
			return NewCannotRemoveError(c, err.Error())
		}
		if handled, resp := h.mapCategoryError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Str("username", username).Str("category", mainName).Str("subcategory", subName).Msg("Failed to remove subcategory")
		return NewInternalError(c, "Failed to remove subcategory")
	}

	log.Info().Str("username", username).Str("category", mainName).Str("subcategory", subName).Msg("Subcategory removed")
	return c.NoContent(http.StatusNoContent)
}
