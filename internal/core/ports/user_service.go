package ports

import (
	"context"

	"github.com/teamforge/identity-service/internal/core/domain"
)

// UserService defines the use-case operations on user records. Inbound
// payloads are untyped field mappings so the domain layer can reject
// forbidden fields and aggregate every validation failure; results are
// always public shapes, never stored ones.
type UserService interface {
	Register(ctx context.Context, payload map[string]any) (*domain.PublicUser, error)
	Get(ctx context.Context, wireID string) (*domain.PublicUser, error)
	List(ctx context.Context, input ListUsersInput) (*ListUsersResult, error)
	Update(ctx context.Context, wireID string, payload map[string]any) (*domain.PublicUser, error)
	Deactivate(ctx context.Context, wireID string) (*domain.PublicUser, error)
}

// ListUsersInput carries the parameters for the list endpoint.
type ListUsersInput struct {
	Role     string
	IsActive *bool
	Search   string
	Page     int
	Limit    int
}

// ListUsersResult is the paginated listing.
type ListUsersResult struct {
	Items      []domain.PublicUser
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}
