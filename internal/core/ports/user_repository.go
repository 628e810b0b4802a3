package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teamforge/identity-service/internal/core/domain"
)

// UserRepository is the persistence collaborator for user records. Insert
// takes a stored shape without an identifier and returns the freshly
// assigned one; Replace takes a full stored shape. Email uniqueness is a
// storage concern: Insert and Replace report domain.ErrUserExists when the
// unique email index is violated.
type UserRepository interface {
	Insert(ctx context.Context, user domain.User) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Replace(ctx context.Context, user domain.User) error
	List(ctx context.Context, filter ListUsersFilter) ([]domain.User, int64, error)
}

// ListUsersFilter narrows and pages the user listing.
type ListUsersFilter struct {
	Role     string
	IsActive *bool
	// Search matches full_name or email, case-insensitive substring.
	Search string
	Page   int
	Limit  int
}
