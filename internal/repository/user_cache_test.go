package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/procurement-service/internal/domain"
)

type recordingUserRepo struct {
	users   map[string]domain.User
	getByID int
	deleted []string
	delErr  error
}

func (r *recordingUserRepo) Create(ctx context.Context, user *domain.User) error { return nil }

func (r *recordingUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.getByID++
	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (r *recordingUserRepo) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Login == login {
			u := user
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *recordingUserRepo) ListByIDs(ctx context.Context, ids []string) (map[string]domain.User, error) {
	result := make(map[string]domain.User)
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			result[id] = user
		}
	}
	return result, nil
}

func (r *recordingUserRepo) Delete(ctx context.Context, id string) error {
	if r.delErr != nil {
		return r.delErr
	}
	r.deleted = append(r.deleted, id)
	delete(r.users, id)
	return nil
}

func TestCachedUserRepositoryPassthroughWithoutClient(t *testing.T) {
	inner := &recordingUserRepo{users: map[string]domain.User{
		"u1": {ID: "u1", Login: "alice", Role: domain.RoleInitiator},
	}}
	cached := NewCachedUserRepository(inner, nil, 0)

	user, err := cached.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Login)
	assert.Equal(t, 1, inner.getByID)

	_, err = cached.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCachedUserRepositoryDelete(t *testing.T) {
	inner := &recordingUserRepo{users: map[string]domain.User{
		"u1": {ID: "u1", Login: "alice", Role: domain.RoleInitiator},
	}}
	cached := NewCachedUserRepository(inner, nil, 0)

	require.NoError(t, cached.Delete(context.Background(), "u1"))
	assert.Equal(t, []string{"u1"}, inner.deleted)

	_, err := cached.GetByID(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCachedUserRepositoryDeleteKeepsReferencedError(t *testing.T) {
	inner := &recordingUserRepo{
		users:  map[string]domain.User{"u1": {ID: "u1"}},
		delErr: ErrUserReferenced,
	}
	cached := NewCachedUserRepository(inner, nil, 0)

	err := cached.Delete(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrUserReferenced)
	assert.Empty(t, inner.deleted)
}
