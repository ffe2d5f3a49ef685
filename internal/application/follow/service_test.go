package follow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/agoraforge/agora/pkg/models"
)

type mockFollowRepository struct{ mock.Mock }

func (m *mockFollowRepository) Create(ctx context.Context, follow *models.Follow) error {
	args := m.Called(ctx, follow)
	return args.Error(0)
}

func (m *mockFollowRepository) Delete(ctx context.Context, followerID, followingID string) error {
	args := m.Called(ctx, followerID, followingID)
	return args.Error(0)
}

func (m *mockFollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	args := m.Called(ctx, followerID, followingID)
	return args.Bool(0), args.Error(1)
}

func (m *mockFollowRepository) ListFollowing(ctx context.Context, followerID string, limit int, cursor string) ([]*models.Follow, string, bool, error) {
	args := m.Called(ctx, followerID, limit, cursor)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Bool(2), args.Error(3)
	}
	return args.Get(0).([]*models.Follow), args.String(1), args.Bool(2), args.Error(3)
}

func (m *mockFollowRepository) ListFollowers(ctx context.Context, followingID string, limit int, cursor string) ([]*models.Follow, string, bool, error) {
	args := m.Called(ctx, followingID, limit, cursor)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Bool(2), args.Error(3)
	}
	return args.Get(0).([]*models.Follow), args.String(1), args.Bool(2), args.Error(3)
}

type mockUserRepository struct{ mock.Mock }

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) ApplyKarmaDeltas(ctx context.Context, userID string, pioneerDelta, builderDelta, criticDelta float64) error {
	args := m.Called(ctx, userID, pioneerDelta, builderDelta, criticDelta)
	return args.Error(0)
}

func (m *mockUserRepository) RecomputeEpistemicScore(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockUserRepository) UpdateNotificationsLastViewedAt(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockUserRepository) ListTopByKarma(ctx context.Context, limit int) ([]*models.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func TestFollow_Success(t *testing.T) {
	ctx := context.Background()
	follows := new(mockFollowRepository)
	users := new(mockUserRepository)

	users.On("GetByID", ctx, "followee-1").Return(&models.User{ID: "followee-1"}, nil)
	follows.On("Create", ctx, mock.AnythingOfType("*models.Follow")).Return(nil)

	svc := NewService(follows, users)
	err := svc.Follow(ctx, "follower-1", "followee-1")

	assert.NoError(t, err)
	follows.AssertExpectations(t)
}

func TestFollow_CannotFollowSelf(t *testing.T) {
	ctx := context.Background()
	follows := new(mockFollowRepository)
	users := new(mockUserRepository)

	svc := NewService(follows, users)
	err := svc.Follow(ctx, "user-1", "user-1")

	assert.ErrorIs(t, err, models.ErrCannotFollowSelf)
	users.AssertNotCalled(t, "GetByID")
	follows.AssertNotCalled(t, "Create")
}

func TestFollow_TargetUserNotFound(t *testing.T) {
	ctx := context.Background()
	follows := new(mockFollowRepository)
	users := new(mockUserRepository)

	users.On("GetByID", ctx, "missing").Return(nil, nil)

	svc := NewService(follows, users)
	err := svc.Follow(ctx, "follower-1", "missing")

	assert.ErrorIs(t, err, models.ErrUserNotFound)
	follows.AssertNotCalled(t, "Create")
}

func TestUnfollow(t *testing.T) {
	ctx := context.Background()
	follows := new(mockFollowRepository)
	users := new(mockUserRepository)

	follows.On("Delete", ctx, "follower-1", "followee-1").Return(nil)

	svc := NewService(follows, users)
	err := svc.Unfollow(ctx, "follower-1", "followee-1")

	assert.NoError(t, err)
	follows.AssertExpectations(t)
}

func TestListFollowing(t *testing.T) {
	ctx := context.Background()
	follows := new(mockFollowRepository)
	users := new(mockUserRepository)

	expected := []*models.Follow{{FollowerID: "follower-1", FollowingID: "followee-1"}}
	follows.On("ListFollowing", ctx, "follower-1", 20, "").Return(expected, "next-cursor", true, nil)

	svc := NewService(follows, users)
	out, cursor, hasMore, err := svc.ListFollowing(ctx, "follower-1", 20, "")

	assert.NoError(t, err)
	assert.Equal(t, expected, out)
	assert.Equal(t, "next-cursor", cursor)
	assert.True(t, hasMore)
}

func TestListFollowers(t *testing.T) {
	ctx := context.Background()
	follows := new(mockFollowRepository)
	users := new(mockUserRepository)

	follows.On("ListFollowers", ctx, "followee-1", 20, "").Return(nil, "", false, nil)

	svc := NewService(follows, users)
	out, cursor, hasMore, err := svc.ListFollowers(ctx, "followee-1", 20, "")

	assert.NoError(t, err)
	assert.Nil(t, out)
	assert.Equal(t, "", cursor)
	assert.False(t, hasMore)
}
