package domain

import "github.com/google/uuid"

// Tag is a named label in a user's tag registry. Tag names are unique
// within a user; transactions reference registry tags rather than owning
// their own copies.
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NewTag creates a tag with a generated ID.
func NewTag(name string) *Tag {
	return &Tag{
		ID:   uuid.New(),
		Name: name,
	}
}
