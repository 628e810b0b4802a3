package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/teamforge/identity-service/internal/core/domain"
	"github.com/teamforge/identity-service/internal/core/ports"
	"github.com/teamforge/identity-service/internal/pkg/identifier"
)

// ProfileCache abstracts the public-profile cache (Redis). A nil cache
// disables caching. Get returns (nil, nil) on a miss.
type ProfileCache interface {
	Get(ctx context.Context, wireID string) (*domain.PublicUser, error)
	Set(ctx context.Context, user domain.PublicUser) error
	Invalidate(ctx context.Context, wireID string) error
}

// AuditSink accepts lifecycle audit entries for asynchronous persistence.
// A nil sink disables the audit trail.
type AuditSink interface {
	Record(entry ports.AuditEntry)
}

// UserService implements user registration and profile management.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	cache  ProfileCache
	audit  AuditSink
	log    zerolog.Logger

	// now is the clock; overridable in tests for deterministic timestamps.
	now func() time.Time
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, cache ProfileCache, audit AuditSink, log zerolog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		cache:  cache,
		audit:  audit,
		log:    log,
		now:    time.Now,
	}
}

// Register validates a registration payload, hashes the password and
// persists the new user. The plaintext password never leaves this method.
func (s *UserService) Register(ctx context.Context, payload map[string]any) (*domain.PublicUser, error) {
	create, err := domain.NewCreateUser(payload)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(create.Password)
	if err != nil {
		s.log.Error().Err(err).Msg("password hashing failed")
		return nil, err
	}

	user := domain.NewUser(create, hash, s.now())
	id, err := s.repo.Insert(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	s.log.Info().Str("user_id", identifier.ToWire(id)).Str("role", string(user.Role)).Msg("user registered")
	s.record(ports.AuditUserRegistered, user)

	pub := user.Public()
	return &pub, nil
}

// Get returns the public shape for the given wire identifier.
func (s *UserService) Get(ctx context.Context, wireID string) (*domain.PublicUser, error) {
	id, err := identifier.FromWire(wireID)
	if err != nil {
		return nil, invalidIdentifier()
	}

	if s.cache != nil {
		if pub, err := s.cache.Get(ctx, wireID); err == nil && pub != nil {
			return pub, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pub := user.Public()
	if s.cache != nil {
		if err := s.cache.Set(ctx, pub); err != nil {
			s.log.Warn().Err(err).Str("user_id", wireID).Msg("profile cache write failed")
		}
	}
	return &pub, nil
}

// List returns a filtered, paginated page of public shapes.
func (s *UserService) List(ctx context.Context, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := s.repo.List(ctx, ports.ListUsersFilter{
		Role:     input.Role,
		IsActive: input.IsActive,
		Search:   input.Search,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]domain.PublicUser, len(users))
	for i, u := range users {
		items[i] = u.Public()
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &ports.ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Update validates a partial patch and applies it to the stored record.
// Fields absent from the payload are left untouched; updated_at is refreshed
// even when the patch is empty.
func (s *UserService) Update(ctx context.Context, wireID string, payload map[string]any) (*domain.PublicUser, error) {
	id, err := identifier.FromWire(wireID)
	if err != nil {
		return nil, invalidIdentifier()
	}

	patch, err := domain.NewUpdateUser(payload)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := user.Apply(patch, s.now())
	if err := s.repo.Replace(ctx, next); err != nil {
		return nil, err
	}

	s.invalidate(ctx, wireID)
	s.log.Info().Str("user_id", wireID).Msg("user updated")
	s.record(ports.AuditUserUpdated, next)

	pub := next.Public()
	return &pub, nil
}

// Deactivate soft-deletes a user by clearing is_active. Idempotent: a second
// call on an inactive user still refreshes updated_at.
func (s *UserService) Deactivate(ctx context.Context, wireID string) (*domain.PublicUser, error) {
	id, err := identifier.FromWire(wireID)
	if err != nil {
		return nil, invalidIdentifier()
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	inactive := false
	next := user.Apply(domain.UpdateUser{IsActive: &inactive}, s.now())
	if err := s.repo.Replace(ctx, next); err != nil {
		return nil, err
	}

	s.invalidate(ctx, wireID)
	s.log.Info().Str("user_id", wireID).Msg("user deactivated")
	s.record(ports.AuditUserDeactivated, next)

	pub := next.Public()
	return &pub, nil
}

func (s *UserService) record(action string, user domain.User) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ports.AuditEntry{UserID: user.ID, Action: action, At: user.UpdatedAt})
}

func (s *UserService) invalidate(ctx context.Context, wireID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, wireID); err != nil {
		s.log.Warn().Err(err).Str("user_id", wireID).Msg("profile cache invalidation failed")
	}
}

func invalidIdentifier() error {
	return domain.ValidationErrors{{
		Field:   "id",
		Kind:    domain.KindInvalidIdentifier,
		Message: "not a valid user identifier",
	}}
}
