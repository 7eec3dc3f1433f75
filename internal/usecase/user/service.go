package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/observability/metrics"
	"brazucas-cork/internal/repository"
)

// dummyHash is compared against when the email is unknown so that both
// failure paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("brazucas-cork-timing-equalizer"), bcrypt.DefaultCost)

// RegisterInput is a sign-up request. Role is optional and defaults to normal.
type RegisterInput struct {
	Email    string
	Nickname string
	Password string
	Role     string
}

// Service provides account use cases.
type Service struct {
	Repo   repository.UserRepository
	Policy PasswordPolicy
	// SelfRoles are the roles a user may request at sign-up.
	SelfRoles []entity.Role
	// HashCost defaults to bcrypt.DefaultCost.
	HashCost int
	Logger   *slog.Logger
	Now      func() time.Time
}

// Register creates an account. The email is stored lower-cased.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	role := entity.RoleNormal
	if strings.TrimSpace(in.Role) != "" {
		r, err := entity.ParseRole(in.Role)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(s.SelfRoles, r) {
			return nil, &entity.ValidationError{Field: "role", Message: fmt.Sprintf("%s cannot be chosen at sign-up", r)}
		}
		role = r
	}

	u, err := s.newUser(in.Email, in.Nickname, in.Password, role)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.RecordRegistration(u.Role)
	s.logger().Info("user registered",
		slog.Int64("user_id", u.ID),
		slog.String("role", string(u.Role)))
	return u, nil
}

// Authenticate checks an email and password pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	hash := dummyHash
	if u != nil {
		hash = []byte(u.PasswordHash)
	}
	cmpErr := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if u == nil || cmpErr != nil {
		metrics.RecordLogin(false)
		return nil, ErrInvalidCredentials
	}

	metrics.RecordLogin(true)
	return u, nil
}

// Get returns an account. Users may read themselves; admins anyone.
func (s *Service) Get(ctx context.Context, p entity.Principal, id int64) (*entity.User, error) {
	if p.Anonymous() {
		return nil, entity.ErrUnauthorized
	}
	if p.ID != id {
		if err := entity.Authorize(p, entity.ActionManageUsers, 0).Err(); err != nil {
			return nil, err
		}
	}
	u, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// List returns every account. Admin only.
func (s *Service) List(ctx context.Context, p entity.Principal) ([]*entity.User, error) {
	if err := entity.Authorize(p, entity.ActionManageUsers, 0).Err(); err != nil {
		return nil, err
	}
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SetRole changes the role of another account. Admin only.
func (s *Service) SetRole(ctx context.Context, p entity.Principal, id int64, role entity.Role) (*entity.User, error) {
	if err := entity.Authorize(p, entity.ActionManageUsers, 0).Err(); err != nil {
		return nil, err
	}
	if id == p.ID {
		return nil, ErrSelfRoleChange
	}
	if _, err := entity.ParseRole(string(role)); err != nil {
		return nil, err
	}

	u, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if u.Role == role {
		return u, nil
	}
	if err := s.Repo.UpdateRole(ctx, id, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	s.logger().Info("user role changed",
		slog.Int64("user_id", id),
		slog.String("from", string(u.Role)),
		slog.String("to", string(role)),
		slog.Int64("by", p.ID))
	u.Role = role
	return u, nil
}

// EnsureAdmin makes sure an admin account exists for email. An existing
// account is promoted and its password reset to password when it differs.
// Safe to call on every start.
func (s *Service) EnsureAdmin(ctx context.Context, email, nickname, password string) (*entity.User, error) {
	existing, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if existing == nil {
		u, err := s.newUser(email, nickname, password, entity.RoleAdmin)
		if err != nil {
			return nil, fmt.Errorf("admin account: %w", err)
		}
		if err := s.Repo.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("create admin: %w", err)
		}
		s.logger().Info("admin account created", slog.Int64("user_id", u.ID))
		return u, nil
	}

	if existing.Role != entity.RoleAdmin {
		if err := s.Repo.UpdateRole(ctx, existing.ID, entity.RoleAdmin); err != nil {
			return nil, fmt.Errorf("promote admin: %w", err)
		}
		existing.Role = entity.RoleAdmin
		s.logger().Info("account promoted to admin", slog.Int64("user_id", existing.ID))
	}

	if bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(password)) != nil {
		if err := s.Policy.Check(password); err != nil {
			return nil, fmt.Errorf("admin account: %w", err)
		}
		hash, err := s.hash(password)
		if err != nil {
			return nil, err
		}
		if err := s.Repo.UpdatePassword(ctx, existing.ID, hash); err != nil {
			return nil, fmt.Errorf("update admin password: %w", err)
		}
		existing.PasswordHash = hash
		s.logger().Info("admin password rotated", slog.Int64("user_id", existing.ID))
	}
	return existing, nil
}

func (s *Service) newUser(email, nickname, password string, role entity.Role) (*entity.User, error) {
	now := s.now()
	u := &entity.User{
		Email:     normalizeEmail(email),
		Nickname:  strings.TrimSpace(nickname),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.Policy.Check(password); err != nil {
		return nil, err
	}
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash
	return u, nil
}

func (s *Service) hash(password string) (string, error) {
	cost := s.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", &entity.ValidationError{Field: "password", Message: "must not exceed 72 bytes"}
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
