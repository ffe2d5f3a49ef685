package vote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/agoraforge/agora/pkg/models"
)

func deletedTimePtr() *time.Time {
	t := time.Now()
	return &t
}

type mockVoteRepository struct{ mock.Mock }

func (m *mockVoteRepository) Upsert(ctx context.Context, vote *models.Vote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *mockVoteRepository) Delete(ctx context.Context, userID string, targetType models.VoteTargetType, targetID string) error {
	args := m.Called(ctx, userID, targetType, targetID)
	return args.Error(0)
}

func (m *mockVoteRepository) Get(ctx context.Context, userID string, targetType models.VoteTargetType, targetID string) (*models.Vote, error) {
	args := m.Called(ctx, userID, targetType, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vote), args.Error(1)
}

type mockPostRepository struct{ mock.Mock }

func (m *mockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *mockPostRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPostRepository) ListFeed(ctx context.Context, sort models.FeedSort, limit int, cursor string) ([]*models.Post, string, bool, error) {
	args := m.Called(ctx, sort, limit, cursor)
	return nil, "", false, args.Error(3)
}

func (m *mockPostRepository) ListByAuthor(ctx context.Context, authorID string, limit int, cursor string) ([]*models.Post, string, bool, error) {
	args := m.Called(ctx, authorID, limit, cursor)
	return nil, "", false, args.Error(3)
}

func (m *mockPostRepository) ListByFollowedAuthors(ctx context.Context, followerID string, limit int, cursor string) ([]*models.Post, string, bool, error) {
	args := m.Called(ctx, followerID, limit, cursor)
	return nil, "", false, args.Error(3)
}

type mockReplyRepository struct{ mock.Mock }

func (m *mockReplyRepository) Create(ctx context.Context, reply *models.Reply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

func (m *mockReplyRepository) GetByID(ctx context.Context, id string) (*models.Reply, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reply), args.Error(1)
}

func (m *mockReplyRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockReplyRepository) ListByPost(ctx context.Context, postID string, ordering models.ReplyOrdering, limit int, cursor string) ([]*models.Reply, string, bool, error) {
	args := m.Called(ctx, postID, ordering, limit, cursor)
	return nil, "", false, args.Error(3)
}

func (m *mockReplyRepository) ListChildren(ctx context.Context, parentReplyID string) ([]*models.Reply, error) {
	args := m.Called(ctx, parentReplyID)
	return nil, args.Error(1)
}

func (m *mockReplyRepository) ListDescendants(ctx context.Context, replyID string) ([]*models.Reply, error) {
	args := m.Called(ctx, replyID)
	return nil, args.Error(1)
}

func TestVote_CastOnPost(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)
	votes := new(mockVoteRepository)

	post := &models.Post{ID: "post-1", AuthorID: "author-1"}
	posts.On("GetByID", ctx, "post-1").Return(post, nil)
	votes.On("Upsert", ctx, mock.AnythingOfType("*models.Vote")).Return(nil)
	votes.On("Get", ctx, "voter-1", models.VoteTargetPost, "post-1").
		Return(&models.Vote{UserID: "voter-1", TargetType: models.VoteTargetPost, TargetID: "post-1", Value: models.VoteUp}, nil)

	svc := NewService(votes, posts, replies)
	v, err := svc.Vote(ctx, "voter-1", models.VoteTargetPost, "post-1", models.VoteUp)

	assert.NoError(t, err)
	assert.NotNil(t, v)
	assert.Equal(t, models.VoteUp, v.Value)
	posts.AssertExpectations(t)
	votes.AssertExpectations(t)
}

func TestVote_OwnPostSucceeds(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)
	votes := new(mockVoteRepository)

	post := &models.Post{ID: "post-1", AuthorID: "author-1"}
	posts.On("GetByID", ctx, "post-1").Return(post, nil)
	votes.On("Upsert", ctx, mock.AnythingOfType("*models.Vote")).Return(nil)
	votes.On("Get", ctx, "author-1", models.VoteTargetPost, "post-1").
		Return(&models.Vote{UserID: "author-1", TargetType: models.VoteTargetPost, TargetID: "post-1", Value: models.VoteUp}, nil)

	svc := NewService(votes, posts, replies)
	v, err := svc.Vote(ctx, "author-1", models.VoteTargetPost, "post-1", models.VoteUp)

	assert.NoError(t, err)
	assert.NotNil(t, v)
	votes.AssertExpectations(t)
}

func TestVote_PostNotFound(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)
	votes := new(mockVoteRepository)

	posts.On("GetByID", ctx, "missing").Return(nil, nil)

	svc := NewService(votes, posts, replies)
	v, err := svc.Vote(ctx, "voter-1", models.VoteTargetPost, "missing", models.VoteUp)

	assert.ErrorIs(t, err, models.ErrPostNotFound)
	assert.Nil(t, v)
}

func TestVote_DeletedPostTreatedAsNotFound(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)
	votes := new(mockVoteRepository)

	deletedPost := &models.Post{ID: "post-1", AuthorID: "author-1", DeletedAt: deletedTimePtr()}
	posts.On("GetByID", ctx, "post-1").Return(deletedPost, nil)

	svc := NewService(votes, posts, replies)
	v, err := svc.Vote(ctx, "voter-1", models.VoteTargetPost, "post-1", models.VoteUp)

	assert.ErrorIs(t, err, models.ErrPostNotFound)
	assert.Nil(t, v)
}

func TestVote_InvalidTargetType(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)
	votes := new(mockVoteRepository)

	svc := NewService(votes, posts, replies)
	v, err := svc.Vote(ctx, "voter-1", models.VoteTargetType("bogus"), "x", models.VoteUp)

	assert.Error(t, err)
	assert.Nil(t, v)
}

func TestVote_OnReply(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)
	votes := new(mockVoteRepository)

	reply := &models.Reply{ID: "reply-1", AuthorID: "author-2"}
	replies.On("GetByID", ctx, "reply-1").Return(reply, nil)
	votes.On("Upsert", ctx, mock.AnythingOfType("*models.Vote")).Return(nil)
	votes.On("Get", ctx, "voter-1", models.VoteTargetReply, "reply-1").
		Return(&models.Vote{UserID: "voter-1", TargetType: models.VoteTargetReply, TargetID: "reply-1", Value: models.VoteDown}, nil)

	svc := NewService(votes, posts, replies)
	v, err := svc.Vote(ctx, "voter-1", models.VoteTargetReply, "reply-1", models.VoteDown)

	assert.NoError(t, err)
	assert.Equal(t, models.VoteDown, v.Value)
}

func TestUnvote(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)
	votes := new(mockVoteRepository)

	votes.On("Delete", ctx, "voter-1", models.VoteTargetPost, "post-1").Return(nil)

	svc := NewService(votes, posts, replies)
	err := svc.Unvote(ctx, "voter-1", models.VoteTargetPost, "post-1")

	assert.NoError(t, err)
	votes.AssertExpectations(t)
}
