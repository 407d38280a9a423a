package application

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-service/internal/domain/entity"
	repo "github.com/oksasatya/go-user-service/internal/domain/repository"
	"github.com/oksasatya/go-user-service/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrMissingFields      = errors.New("missing required fields")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
	ErrAdminRequired      = errors.New("admin role required")
)

const viewCacheTTL = 5 * time.Minute

// Service orchestrates user CRUD and authentication.
type Service struct {
	Repo   repo.UserRepository
	Tokens *helpers.TokenManager
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewService(r repo.UserRepository, tokens *helpers.TokenManager, rdb *redis.Client, logger *logrus.Logger) *Service {
	return &Service{Repo: r, Tokens: tokens, Redis: rdb, Logger: logger}
}

// View is the public projection of a user record. The password hash is
// never part of it.
type View struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func ViewOf(u *entity.User) View {
	return View{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

func viewCacheKey(id int64) string {
	return "user:view:" + strconv.FormatInt(id, 10)
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Register validates the input, hashes the password, and inserts the
// new user. The email must not already be registered.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, ErrMissingFields
	}
	if _, err := s.Repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Role:     in.Role,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		// The unique index still wins the race between the lookup
		// above and the insert.
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user registered")
	}
	return u, nil
}

// Authenticate validates email/password and returns the user without
// issuing a token. Absent users and wrong passwords are indistinguishable.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.VerifyPassword(password, u.Password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and issues a bearer token whose subject is the
// user's email.
func (s *Service) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", time.Time{}, err
	}
	token, exp, err := s.Tokens.Issue(u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("token issue failed")
		}
		return "", time.Time{}, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user logged in")
	}
	return token, exp, nil
}

// ResolveSubject maps a verified token subject back to a user record.
// Used by the auth middleware.
func (s *Service) ResolveSubject(ctx context.Context, subject string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, subject)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// GetView returns the public view for id, read through the Redis cache
// when one is configured.
func (s *Service) GetView(ctx context.Context, id int64) (View, error) {
	key := viewCacheKey(id)
	if s.Redis != nil {
		var v View
		if ok, err := helpers.CacheGetJSON(ctx, s.Redis, key, &v); err == nil && ok {
			return v, nil
		}
	}
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return View{}, ErrUserNotFound
		}
		return View{}, err
	}
	v := ViewOf(u)
	if s.Redis != nil {
		if err := helpers.CacheSetJSON(ctx, s.Redis, key, v, viewCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("cache set failed")
		}
	}
	return v, nil
}

type UpdateInput struct {
	Username *string
	Email    *string
	Password *string
	Role     *string
}

// nonEmpty drops both absent and empty-string fields; an empty string
// is never a legal value for any user field.
func nonEmpty(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return p
}

// Update applies the supplied non-empty fields only; a supplied
// password is re-hashed before storage.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*entity.User, error) {
	patch := repo.UserPatch{
		Username: nonEmpty(in.Username),
		Email:    nonEmpty(in.Email),
		Role:     nonEmpty(in.Role),
	}
	if pw := nonEmpty(in.Password); pw != nil {
		hash, err := helpers.HashPassword(*pw)
		if err != nil {
			return nil, err
		}
		patch.Password = &hash
	}
	if patch.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}

	u, err := s.Repo.UpdateFields(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repo.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.invalidateView(ctx, id)
	return u, nil
}

// Delete removes a user record. Only admin callers may delete.
func (s *Service) Delete(ctx context.Context, id int64, caller *entity.User) error {
	if caller == nil || !caller.IsAdmin() {
		return ErrAdminRequired
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.invalidateView(ctx, id)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": id, "deleted_by": caller.ID}).Info("user deleted")
	}
	return nil
}

func (s *Service) invalidateView(ctx context.Context, id int64) {
	if s.Redis == nil {
		return
	}
	if err := helpers.CacheDel(ctx, s.Redis, viewCacheKey(id)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", id).Warn("cache invalidation failed")
	}
}
