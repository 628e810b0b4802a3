package ports

import (
	"context"

	"github.com/teamforge/identity-service/internal/core/domain"
)

// AuthService authenticates users. Registration lives on UserService; login
// verifies credentials against the stored hash and issues a signed token.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.PublicUser, error)
}
