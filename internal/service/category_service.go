package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/budgeteer/budgeteer-backend/internal/domain"
	"github.com/budgeteer/budgeteer-backend/internal/websocket"
)

// CategoryPayload is the WebSocket event payload for category operations
type CategoryPayload struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Parent string    `json:"parent,omitempty"`
}

// CategoryService implements the category tree use cases. The tree is
// exactly two levels deep: subcategories are only ever added under a main
// category, never under another subcategory.
type CategoryService struct {
	userRepo       domain.UserRepository
	eventPublisher websocket.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(userRepo domain.UserRepository) *CategoryService {
	return &CategoryService{userRepo: userRepo}
}

// SetEventPublisher sets the WebSocket event publisher
func (s *CategoryService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CategoryService) publishEvent(username string, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(username, event)
	}
}

// CreateMainCategory creates a top-level category. Fails with
// ErrAlreadyExists if the user already has a main category with that
// name.
func (s *CategoryService) CreateMainCategory(username, name string) (*domain.Category, error) {
	name, err := validName(name)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	if user.FindCategory(name) != nil {
		return nil, fmt.Errorf("category %q: %w", name, domain.ErrAlreadyExists)
	}

	category := domain.NewCategory(name)
	if err := user.AddCategory(category); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}

	s.publishEvent(username, websocket.CategoryCreated(CategoryPayload{ID: category.ID, Name: category.Name}))

	return category, nil
}

// RenameMainCategory renames a top-level category. Renaming a category to
// its own name is a no-op; a name held by a different main category fails
// with ErrAlreadyExists.
func (s *CategoryService) RenameMainCategory(username, oldName, newName string) (*domain.Category, error) {
	newName, err := validName(newName)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	category := user.FindCategory(oldName)
	if category == nil {
		return nil, fmt.Errorf("category %q: %w", oldName, domain.ErrNotFound)
	}

	if existing := user.FindCategory(newName); existing != nil && existing != category {
		return nil, fmt.Errorf("category %q: %w", newName, domain.ErrAlreadyExists)
	}

	category.Name = newName

	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}

	s.publishEvent(username, websocket.CategoryUpdated(CategoryPayload{ID: category.ID, Name: category.Name}))

	return category, nil
}

// RemoveMainCategory removes a top-level category. A category with
// subcategories or transactions fails with ErrCannotRemove; the
// subcategory check runs first.
func (s *CategoryService) RemoveMainCategory(username, name string) error {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return err
	}

	category := user.FindCategory(name)
	if category == nil {
		return fmt.Errorf("category %q: %w", name, domain.ErrNotFound)
	}

	if category.HasSubCategories() {
		return fmt.Errorf("category %q has subcategories: %w", name, domain.ErrCannotRemove)
	}
	if category.HasTransactions() {
		return fmt.Errorf("category %q has transactions: %w", name, domain.ErrCannotRemove)
	}

	user.RemoveCategory(category)

	if err := s.userRepo.Save(user); err != nil {
		return err
	}

	s.publishEvent(username, websocket.CategoryDeleted(CategoryPayload{ID: category.ID, Name: category.Name}))

	return nil
}

// CreateSubCategory creates a subcategory under the named main category.
// Fails with ErrNotFound if the main category does not exist and with
// ErrAlreadyExists if the main category already has a subcategory with
// that name.
func (s *CategoryService) CreateSubCategory(username, mainName, subName string) (*domain.Category, error) {
	subName, err := validName(subName)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	main := user.FindCategory(mainName)
	if main == nil {
		return nil, fmt.Errorf("category %q: %w", mainName, domain.ErrNotFound)
	}

	if main.FindSubCategory(subName) != nil {
		return nil, fmt.Errorf("subcategory %q: %w", subName, domain.ErrAlreadyExists)
	}

	sub := domain.NewCategory(subName)
	if err := main.AddSubCategory(sub); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}

	s.publishEvent(username, websocket.SubCategoryCreated(CategoryPayload{ID: sub.ID, Name: sub.Name, Parent: main.Name}))

	return sub, nil
}

// RenameSubCategory renames a subcategory of the named main category.
// The missing entity is named in the ErrNotFound failure; same-name
// renames are no-ops.
func (s *CategoryService) RenameSubCategory(username, mainName, oldName, newName string) (*domain.Category, error) {
	newName, err := validName(newName)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	main := user.FindCategory(mainName)
	if main == nil {
		return nil, fmt.Errorf("category %q: %w", mainName, domain.ErrNotFound)
	}

	sub := main.FindSubCategory(oldName)
	if sub == nil {
		return nil, fmt.Errorf("subcategory %q: %w", oldName, domain.ErrNotFound)
	}

	if existing := main.FindSubCategory(newName); existing != nil && existing != sub {
		return nil, fmt.Errorf("subcategory %q: %w", newName, domain.ErrAlreadyExists)
	}

	sub.Name = newName

	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}

	s.publishEvent(username, websocket.SubCategoryUpdated(CategoryPayload{ID: sub.ID, Name: sub.Name, Parent: main.Name}))

	return sub, nil
}

// RemoveSubCategory removes a subcategory from the named main category.
// A subcategory that still holds transactions fails with ErrCannotRemove.
func (s *CategoryService) RemoveSubCategory(username, mainName, subName string) error {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return err
	}

	main := user.FindCategory(mainName)
	if main == nil {
		return fmt.Errorf("category %q: %w", mainName, domain.ErrNotFound)
	}

	sub := main.FindSubCategory(subName)
	if sub == nil {
		return fmt.Errorf("subcategory %q: %w", subName, domain.ErrNotFound)
	}

	if sub.HasTransactions() {
		return fmt.Errorf("subcategory %q has transactions: %w", subName, domain.ErrCannotRemove)
	}

	main.RemoveSubCategory(sub)

	if err := s.userRepo.Save(user); err != nil {
		return err
	}

	s.publishEvent(username, websocket.SubCategoryDeleted(CategoryPayload{ID: sub.ID, Name: sub.Name, Parent: main.Name}))

	return nil
}

// GetAllCategories returns a snapshot of the user's main categories.
func (s *CategoryService) GetAllCategories(username string) ([]*domain.Category, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	return user.Categories(), nil
}

// GetSubCategories returns a snapshot of the subcategories of the named
// main category. Fails with ErrNotFound if the main category does not
// exist.
func (s *CategoryService) GetSubCategories(username, mainName string) ([]*domain.Category, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	main := user.FindCategory(mainName)
	if main == nil {
		return nil, fmt.Errorf("category %q: %w", mainName, domain.ErrNotFound)
	}
	return main.SubCategories(), nil
}
