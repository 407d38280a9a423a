package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-service/internal/application"
	"github.com/oksasatya/go-user-service/internal/domain/entity"
	"github.com/oksasatya/go-user-service/internal/domain/repository"
	"github.com/oksasatya/go-user-service/pkg/helpers"
)

// memoryUserRepo is an in-memory UserRepository for tests. IDs are
// auto-incremented and never reused.
type memoryUserRepo struct {
	nextID int64
	users  map[int64]*entity.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{nextID: 1, users: map[int64]*entity.User{}}
}

func (r *memoryUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryUserRepo) UpdateFields(_ context.Context, id int64, patch repository.UserPatch) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Email != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Email == *patch.Email {
				return nil, repository.ErrDuplicateEmail
			}
		}
		u.Email = *patch.Email
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Password != nil {
		u.Password = *patch.Password
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (r *memoryUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

var _ repository.UserRepository = (*memoryUserRepo)(nil)

func newTestService() (*application.Service, *memoryUserRepo) {
	repo := newMemoryUserRepo()
	tokens := helpers.NewTokenManager("test-secret", 30*time.Minute)
	return application.NewService(repo, tokens, nil, nil), repo
}

func registerUser(t *testing.T, svc *application.Service, username, email, password, role string) *entity.User {
	t.Helper()
	u, err := svc.Register(context.Background(), application.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u := registerUser(t, svc, "alice", "a@x.com", "pw1", "user")

	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "pw1", u.Password)
	assert.True(t, helpers.VerifyPassword("pw1", u.Password))

	// The public view never carries the password in any form.
	view := application.ViewOf(u)
	assert.Equal(t, application.View{ID: u.ID, Username: "alice", Email: "a@x.com", Role: "user"}, view)

	t.Run("Duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, application.RegisterInput{
			Username: "alice2", Email: "a@x.com", Password: "pw2", Role: "user",
		})
		assert.ErrorIs(t, err, application.ErrEmailTaken)
	})

	t.Run("Missing fields", func(t *testing.T) {
		_, err := svc.Register(ctx, application.RegisterInput{
			Username: "bob", Email: "", Password: "pw", Role: "user",
		})
		assert.ErrorIs(t, err, application.ErrMissingFields)
	})
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	registerUser(t, svc, "alice", "a@x.com", "pw1", "user")

	t.Run("Correct credentials", func(t *testing.T) {
		token, exp, err := svc.Login(ctx, "a@x.com", "pw1")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.True(t, exp.After(time.Now()))

		// The token resolves back to the same account.
		claims, err := svc.Tokens.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", claims.Subject)
	})

	// Wrong password and unknown email fail identically.
	t.Run("Wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "a@x.com", "nope")
		assert.ErrorIs(t, err, application.ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "missing@x.com", "pw1")
		assert.ErrorIs(t, err, application.ErrInvalidCredentials)
	})
}

func TestGetView(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	u := registerUser(t, svc, "alice", "a@x.com", "pw1", "user")

	v, err := svc.GetView(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, application.View{ID: u.ID, Username: "alice", Email: "a@x.com", Role: "user"}, v)

	_, err = svc.GetView(ctx, 999)
	assert.ErrorIs(t, err, application.ErrUserNotFound)
}

func strptr(s string) *string { return &s }

func TestUpdate(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	u := registerUser(t, svc, "alice", "a@x.com", "pw1", "user")

	t.Run("Single field leaves the rest intact", func(t *testing.T) {
		updated, err := svc.Update(ctx, u.ID, application.UpdateInput{Username: strptr("alicia")})
		require.NoError(t, err)
		assert.Equal(t, "alicia", updated.Username)
		assert.Equal(t, "a@x.com", updated.Email)
		assert.Equal(t, "user", updated.Role)

		// Round-trip read confirms persistence.
		got, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "alicia", got.Username)
		assert.Equal(t, "a@x.com", got.Email)
	})

	t.Run("Password is re-hashed", func(t *testing.T) {
		updated, err := svc.Update(ctx, u.ID, application.UpdateInput{Password: strptr("pw2")})
		require.NoError(t, err)
		assert.NotEqual(t, "pw2", updated.Password)
		assert.True(t, helpers.VerifyPassword("pw2", updated.Password))
	})

	t.Run("No fields", func(t *testing.T) {
		_, err := svc.Update(ctx, u.ID, application.UpdateInput{})
		assert.ErrorIs(t, err, application.ErrNoFieldsToUpdate)
	})

	t.Run("All fields empty strings", func(t *testing.T) {
		_, err := svc.Update(ctx, u.ID, application.UpdateInput{
			Username: strptr(""),
			Email:    strptr(""),
			Password: strptr(""),
			Role:     strptr(""),
		})
		assert.ErrorIs(t, err, application.ErrNoFieldsToUpdate)
	})

	t.Run("Empty password is ignored", func(t *testing.T) {
		updated, err := svc.Update(ctx, u.ID, application.UpdateInput{
			Username: strptr("still-alicia"),
			Password: strptr(""),
		})
		require.NoError(t, err)
		assert.Equal(t, "still-alicia", updated.Username)

		// The stored password is untouched; the account never ends up
		// behind an empty password.
		assert.True(t, helpers.VerifyPassword("pw2", updated.Password))
		assert.False(t, helpers.VerifyPassword("", updated.Password))
	})

	t.Run("Unknown id", func(t *testing.T) {
		_, err := svc.Update(ctx, 999, application.UpdateInput{Username: strptr("x")})
		assert.ErrorIs(t, err, application.ErrUserNotFound)
	})

	t.Run("Email conflict", func(t *testing.T) {
		registerUser(t, svc, "bob", "b@x.com", "pw", "user")
		_, err := svc.Update(ctx, u.ID, application.UpdateInput{Email: strptr("b@x.com")})
		assert.ErrorIs(t, err, application.ErrEmailTaken)
	})
}

func TestDelete(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	target := registerUser(t, svc, "alice", "a@x.com", "pw1", "user")
	admin := registerUser(t, svc, "root", "root@x.com", "pw2", "admin")

	t.Run("Non-admin forbidden", func(t *testing.T) {
		err := svc.Delete(ctx, target.ID, target)
		assert.ErrorIs(t, err, application.ErrAdminRequired)

		// The record survives a forbidden delete.
		_, err = repo.GetByID(ctx, target.ID)
		assert.NoError(t, err)
	})

	t.Run("Nil caller forbidden", func(t *testing.T) {
		err := svc.Delete(ctx, target.ID, nil)
		assert.ErrorIs(t, err, application.ErrAdminRequired)
	})

	t.Run("Admin deletes", func(t *testing.T) {
		err := svc.Delete(ctx, target.ID, admin)
		require.NoError(t, err)

		_, err = repo.GetByID(ctx, target.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Unknown id", func(t *testing.T) {
		err := svc.Delete(ctx, 999, admin)
		assert.ErrorIs(t, err, application.ErrUserNotFound)
	})
}

func TestResolveSubject(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	u := registerUser(t, svc, "alice", "a@x.com", "pw1", "user")

	got, err := svc.ResolveSubject(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.ResolveSubject(ctx, "missing@x.com")
	assert.ErrorIs(t, err, application.ErrUserNotFound)
}
