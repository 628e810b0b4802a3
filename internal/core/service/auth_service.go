package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/teamforge/identity-service/internal/core/domain"
	"github.com/teamforge/identity-service/internal/core/ports"
)

// AuthService implements login against stored credentials.
type AuthService struct {
	repo      ports.UserRepository
	hasher    ports.PasswordHasher
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Login verifies the credentials and returns a signed token plus the public
// shape of the user. The email is normalized before lookup so login accepts
// any casing the user registered with. Deactivated users cannot log in.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.PublicUser, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		// Unknown emails are indistinguishable from bad passwords.
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.hasher.Compare(user.HashedPassword, password) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	pub := user.Public()
	token, err := s.generateToken(pub)
	if err != nil {
		return "", nil, err
	}
	return token, &pub, nil
}

func (s *AuthService) generateToken(user domain.PublicUser) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   s.now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
