package service

import "github.com/budgeteer/budgeteer-backend/internal/domain"

// TagService exposes read access to a user's tag registry. Tags are only
// ever created through transaction edits (find-or-create) and are never
// deleted.
type TagService struct {
	userRepo domain.UserRepository
}

// NewTagService creates a new TagService
func NewTagService(userRepo domain.UserRepository) *TagService {
	return &TagService{userRepo: userRepo}
}

// GetTags returns a snapshot of the user's tags.
func (s *TagService) GetTags(username string) ([]*domain.Tag, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	return user.Tags(), nil
}
